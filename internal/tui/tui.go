// Package tui provides a Bubble Tea content browser for gamedata.
package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/gamedata/internal/config"
	"github.com/handiism/gamedata/internal/model"
	"github.com/handiism/gamedata/internal/session"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	folderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))
)

// State represents the current UI state.
type State int

const (
	StateStarting State = iota
	StateBrowse
	StatePrompt
	StateConfirm
	StateError
)

type promptKind int

const (
	promptSaveAs promptKind = iota
	promptFolder
	promptImport
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   session.ProgressLevel
}

// eventBuffer collects progress events emitted while commands run off the
// UI goroutine.
type eventBuffer struct {
	mu     sync.Mutex
	events []session.ProgressEvent
}

func (b *eventBuffer) add(e session.ProgressEvent) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

func (b *eventBuffer) drain() []session.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// Model is the Bubble Tea model for the content browser.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	sess      *session.Session
	events    *eventBuffer
	logs      []LogEntry
	err       error
	busy      bool

	// Browsing position
	typeIdx int
	folder  model.FolderPath
	items   []session.Item
	cursor  int

	// Instance held by the editing loader of the current type
	current       string
	currentFolder model.FolderPath
	details       []session.Summary

	prompt      promptKind
	confirmText string
	pending     tea.Cmd

	verbose bool

	width  int
	height int
}

// NewModel creates a browser over a new session built from settings.
func NewModel(settings *config.Settings, opts ...session.Option) (Model, error) {
	events := &eventBuffer{}
	sess, err := session.New(settings, events.add, opts...)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	return Model{
		state:     StateStarting,
		textInput: ti,
		spinner:   sp,
		sess:      sess,
		events:    events,
		busy:      true,
	}, nil
}

// Init starts the session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

// Message types
type (
	// startedMsg is sent when the session has started and preloaded.
	startedMsg struct {
		err error
	}

	// listedMsg carries the content of the browsed folder.
	listedMsg struct {
		items []session.Item
		err   error
	}

	// instanceMsg is sent after the live instance changed.
	instanceMsg struct {
		name    string
		folder  model.FolderPath
		summary []session.Summary
		relist  bool
		err     error
	}

	// resultMsg is sent after a folder-level command.
	resultMsg struct {
		relist bool
		err    error
	}

	// switchTypeMsg moves the browser to the next entity type.
	switchTypeMsg struct{}

	// exitMsg is sent once the cache was reloaded on exit.
	exitMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startedMsg:
		m.collect()
		m.busy = false
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.state = StateBrowse
		return m, m.list()

	case listedMsg:
		m.collect()
		m.busy = false
		if msg.err != nil {
			m.logError(msg.err)
			return m, nil
		}
		m.items = msg.items
		m.cursor = min(m.cursor, max(0, len(m.items)-1))
		return m, nil

	case instanceMsg:
		m.collect()
		m.busy = false
		if msg.err != nil {
			m.logError(msg.err)
			return m, nil
		}
		m.current = msg.name
		m.currentFolder = msg.folder
		m.details = msg.summary
		if msg.relist {
			return m, m.list()
		}
		return m, nil

	case resultMsg:
		m.collect()
		m.busy = false
		if msg.err != nil {
			m.logError(msg.err)
		}
		if msg.relist {
			return m, m.list()
		}
		return m, nil

	case runMsg:
		return m.run(msg.cmd)

	case switchTypeMsg:
		m.typeIdx = (m.typeIdx + 1) % len(m.sess.Types())
		m.folder = nil
		m.cursor = 0
		m.current = ""
		m.currentFolder = nil
		m.details = nil
		return m, m.list()

	case exitMsg:
		return m, tea.Quit
	}

	if m.state == StatePrompt {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case StatePrompt:
		switch msg.String() {
		case "enter":
			return m.submitPrompt()
		case "esc":
			m.state = StateBrowse
			m.textInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case StateConfirm:
		switch msg.String() {
		case "y", "enter":
			cmd := m.pending
			m.pending = nil
			m.state = StateBrowse
			return m, cmd
		case "n", "esc":
			m.pending = nil
			m.state = StateBrowse
		}
		return m, nil

	case StateError:
		switch msg.String() {
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		return m, nil

	case StateStarting:
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "enter", "right", "l":
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		if item.Folder {
			m.folder = m.folder.Join(item.Name)
			m.cursor = 0
			return m, m.list()
		}
		return m.guardDirty(m.open(item.Name, m.folder))

	case "backspace", "left", "h":
		if m.folder.IsRoot() {
			return m, nil
		}
		m.folder = m.folder.Parent()
		m.cursor = 0
		return m, m.list()

	case "tab":
		return m.guardDirty(func() tea.Msg { return switchTypeMsg{} })

	case "n":
		return m.guardDirty(m.newInstance())

	case "s":
		if m.current == "" {
			return m.startPrompt(promptSaveAs, "Name")
		}
		return m.run(m.save(m.current, m.currentFolder))

	case "S":
		return m.startPrompt(promptSaveAs, "Name")

	case "f":
		return m.startPrompt(promptFolder, "Folder name")

	case "i":
		return m.startPrompt(promptImport, "Part=path")

	case "d", "delete":
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		kind := "instance"
		if item.Folder {
			kind = "folder"
		}
		m.state = StateConfirm
		m.confirmText = fmt.Sprintf("Delete %s %s and everything in it?", kind, m.folder.Join(item.Name))
		m.pending = m.delete(item)
		return m, nil

	case "r":
		return m.run(m.reload())

	case "v":
		m.verbose = !m.verbose

	case "q", "esc":
		return m.guardDirty(m.exit())
	}

	return m, nil
}

// guardDirty runs cmd right away, or after the user agreed to discard the
// unsaved edits of the current instance.
func (m Model) guardDirty(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if !m.sess.Dirty(m.typeFolder()) {
		return m.run(cmd)
	}
	name := m.current
	if name == "" {
		name = "the new instance"
	}
	m.state = StateConfirm
	m.confirmText = fmt.Sprintf("Discard unsaved changes to %s?", name)
	m.pending = func() tea.Msg { return runMsg{cmd} }
	return m, nil
}

// runMsg defers a guarded command until after the confirmation so it goes
// through run and shows the spinner.
type runMsg struct {
	cmd tea.Cmd
}

func (m Model) run(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) startPrompt(kind promptKind, placeholder string) (tea.Model, tea.Cmd) {
	m.state = StatePrompt
	m.prompt = kind
	m.textInput.SetValue("")
	m.textInput.Placeholder = placeholder
	return m, m.textInput.Focus()
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.textInput.Value())
	m.textInput.Blur()
	m.state = StateBrowse
	if value == "" {
		return m, nil
	}

	switch m.prompt {
	case promptSaveAs:
		return m.run(m.save(value, m.folder))
	case promptFolder:
		return m.run(m.createFolder(value))
	case promptImport:
		partName, path, ok := strings.Cut(value, "=")
		if !ok {
			m.logs = appendLog(m.logs, LogEntry{Message: "Import expects Part=path", Level: session.LevelWarning})
			return m, nil
		}
		return m.run(m.importFile(strings.TrimSpace(partName), strings.TrimSpace(path)))
	}
	return m, nil
}

func (m Model) selected() (session.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return session.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) typeFolder() string {
	types := m.sess.Types()
	if len(types) == 0 {
		return ""
	}
	return types[m.typeIdx%len(types)]
}

// collect moves progress events emitted by finished commands into the log.
func (m *Model) collect() {
	for _, e := range m.events.drain() {
		if e.Level == session.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = appendLog(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	}
}

func (m *Model) logError(err error) {
	m.logs = appendLog(m.logs, LogEntry{Message: err.Error(), Level: session.LevelError})
}

// appendLog keeps only the last 10 entries.
func appendLog(logs []LogEntry, e LogEntry) []LogEntry {
	logs = append(logs, e)
	if len(logs) > 10 {
		logs = logs[len(logs)-10:]
	}
	return logs
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("GameData Browser"))
	b.WriteString("\n")

	switch m.state {
	case StateStarting:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Preloading content..."))
		b.WriteString("\n")
	case StateError:
		b.WriteString(errorStyle.Render("✗ Error occurred:"))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(fmt.Sprintf("  %s\n", m.err.Error()))
		}
	default:
		b.WriteString(m.viewBrowse())
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewBrowse() string {
	var b strings.Builder

	tabs := make([]string, 0, len(m.sess.Types()))
	for i, t := range m.sess.Types() {
		if i == m.typeIdx {
			tabs = append(tabs, selectedStyle.Render("["+t+"]"))
		} else {
			tabs = append(tabs, dimStyle.Render(" "+t+" "))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s:/%s", m.typeFolder(), m.folder)))
	if m.busy {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("  (empty)"))
		b.WriteString("\n")
	}
	for i, item := range m.items {
		line := item.Name
		if item.Folder {
			line = folderStyle.Render("▸ " + item.Name + "/")
		} else {
			line = "  " + line
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(boxStyle.Render(m.viewInstance()))
	b.WriteString("\n")

	switch m.state {
	case StatePrompt:
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(m.promptTitle()))
		b.WriteString("\n")
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
	case StateConfirm:
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(m.confirmText + " (y/n)"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewInstance() string {
	var b strings.Builder

	name := "(new)"
	if m.current != "" {
		name = m.currentFolder.Join(m.current).String()
	}
	if m.sess.Dirty(m.typeFolder()) {
		name += " *"
	}
	b.WriteString(infoStyle.Render("Editing: " + name))
	for _, s := range m.details {
		detail := strings.ReplaceAll(s.Detail, "\n", " ")
		if len(detail) > 60 {
			detail = detail[:57] + "..."
		}
		b.WriteString(fmt.Sprintf("\n%-10s %-8s %s", s.Part, s.Kind, detail))
	}
	return b.String()
}

func (m Model) promptTitle() string {
	switch m.prompt {
	case promptSaveAs:
		return "Save as:"
	case promptFolder:
		return "New folder:"
	case promptImport:
		return "Import file into part (Part=path):"
	}
	return ""
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case session.LevelError:
			style = errorStyle
			prefix = "✗"
		case session.LevelWarning:
			style = warningStyle
			prefix = "!"
		case session.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case session.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateBrowse:
		return "↑/↓: move • enter: open • ←: back • tab: type • n: new • s/S: save/save as • f: folder • i: import • d: delete • r: reload • v: verbose • q: quit"
	case StatePrompt:
		return "enter: confirm • esc: cancel"
	case StateConfirm:
		return "y: yes • n: no"
	case StateError:
		return "q: quit"
	}
	return ""
}

// start starts the session.
func (m Model) start() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return startedMsg{err: sess.Start()}
	}
}

func (m Model) list() tea.Cmd {
	sess, typ, folder := m.sess, m.typeFolder(), m.folder
	return func() tea.Msg {
		items, err := sess.List(typ, folder)
		return listedMsg{items: items, err: err}
	}
}

func (m Model) open(name string, folder model.FolderPath) tea.Cmd {
	sess, typ := m.sess, m.typeFolder()
	return func() tea.Msg {
		if err := sess.Open(typ, name, folder); err != nil {
			return instanceMsg{err: err}
		}
		summary, err := sess.Describe(typ)
		return instanceMsg{name: name, folder: folder, summary: summary, err: err}
	}
}

func (m Model) newInstance() tea.Cmd {
	sess, typ := m.sess, m.typeFolder()
	return func() tea.Msg {
		if err := sess.NewInstance(typ); err != nil {
			return instanceMsg{err: err}
		}
		summary, err := sess.Describe(typ)
		return instanceMsg{summary: summary, err: err}
	}
}

func (m Model) save(name string, folder model.FolderPath) tea.Cmd {
	sess, typ := m.sess, m.typeFolder()
	return func() tea.Msg {
		if err := sess.Save(typ, name, folder); err != nil {
			return instanceMsg{err: err}
		}
		summary, err := sess.Describe(typ)
		return instanceMsg{name: name, folder: folder, summary: summary, relist: true, err: err}
	}
}

func (m Model) importFile(partName, path string) tea.Cmd {
	sess, typ, name, folder := m.sess, m.typeFolder(), m.current, m.currentFolder
	return func() tea.Msg {
		if err := sess.Import(typ, partName, path); err != nil {
			return instanceMsg{err: err}
		}
		summary, err := sess.Describe(typ)
		return instanceMsg{name: name, folder: folder, summary: summary, err: err}
	}
}

func (m Model) createFolder(name string) tea.Cmd {
	sess, typ, folder := m.sess, m.typeFolder(), m.folder
	return func() tea.Msg {
		return resultMsg{relist: true, err: sess.CreateFolder(typ, folder, name)}
	}
}

func (m Model) delete(item session.Item) tea.Cmd {
	sess, typ, folder := m.sess, m.typeFolder(), m.folder
	return func() tea.Msg {
		return resultMsg{relist: true, err: sess.Delete(typ, folder, item)}
	}
}

func (m Model) reload() tea.Cmd {
	sess, typ := m.sess, m.typeFolder()
	return func() tea.Msg {
		return resultMsg{relist: true, err: sess.Reload(typ)}
	}
}

// exit reloads the browsed type so other consumers see every change made in
// this session, then stops the session.
func (m Model) exit() tea.Cmd {
	sess, typ := m.sess, m.typeFolder()
	return func() tea.Msg {
		if err := sess.Reload(typ); err != nil {
			return resultMsg{err: err}
		}
		sess.Stop()
		return exitMsg{}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, opts ...session.Option) error {
	m, err := NewModel(settings, opts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
