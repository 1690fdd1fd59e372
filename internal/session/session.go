package session

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/handiism/gamedata/internal/audio"
	"github.com/handiism/gamedata/internal/config"
	ioutils "github.com/handiism/gamedata/internal/io"
	"github.com/handiism/gamedata/internal/loader"
	"github.com/handiism/gamedata/internal/logging"
	"github.com/handiism/gamedata/internal/model"
	"github.com/handiism/gamedata/internal/part"
	"github.com/handiism/gamedata/internal/preload"
	"github.com/handiism/gamedata/internal/sample"
	"github.com/handiism/gamedata/internal/vfs"
)

// ErrUnknownType is returned for a type folder no entity type is stored in.
var ErrUnknownType = preload.ErrUnknownType

// Item is one row of a folder listing.
type Item struct {
	Name   string
	Folder bool
}

// Session owns the filesystem, the preload cache and one editing loader
// per entity type for the lifetime of an editor run.
type Session struct {
	settings     *config.Settings
	fsys         afero.Fs
	logger       *slog.Logger
	imageService *ioutils.ImageService

	fs      *vfs.FileSystem
	cache   *preload.Cache
	types   []sample.Type
	editors map[string]*loader.Loader
	dirty   map[string]bool

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithFs replaces the local disk, typically with an in-memory filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(s *Session) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// WithLogger sets the structured logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTypes replaces the entity types registered on Start.
func WithTypes(types ...sample.Type) Option {
	return func(s *Session) {
		s.types = types
	}
}

// New creates a Session. Nothing touches the disk before Start.
func New(settings *config.Settings, onProgress func(ProgressEvent), opts ...Option) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if onProgress == nil {
		onProgress = func(ProgressEvent) {}
	}
	s := &Session{
		settings:     settings,
		fsys:         afero.NewOsFs(),
		logger:       logging.Discard(),
		imageService: ioutils.NewImageService(),
		types:        sample.Types(),
		onProgress:   onProgress,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start prepares the content root, registers every entity type and, unless
// disabled in the settings, preloads them.
//
// Instances that fail to preload are reported as warnings and do not fail
// Start.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	strategy, err := s.settings.ToStrategy()
	if err != nil {
		return err
	}
	fs, err := vfs.New(s.fsys, s.settings.ContentRoot, strategy, vfs.WithLogger(s.logger))
	if err != nil {
		return err
	}
	if err := fs.EnsureRoot(); err != nil {
		return err
	}

	cache := preload.New(preload.WithLogger(s.logger))
	editors := make(map[string]*loader.Loader, len(s.types))
	for _, typ := range s.types {
		if err := fs.CreateTypeFolder(typ.Folder); err != nil {
			return err
		}
		scanner, err := typ.Build(fs, loader.WithLogger(s.logger))
		if err != nil {
			return fmt.Errorf("type %s: %w", typ.Folder, err)
		}
		if err := cache.Register(scanner); err != nil {
			return err
		}
		editor, err := typ.Build(fs, loader.WithRecords(cache), loader.WithLogger(s.logger))
		if err != nil {
			return fmt.Errorf("type %s: %w", typ.Folder, err)
		}
		folder := typ.Folder
		editor.OnDirty(func() { s.dirty[folder] = true })
		editors[typ.Folder] = editor
	}

	s.fs = fs
	s.cache = cache
	s.editors = editors
	s.dirty = make(map[string]bool, len(editors))

	s.progress(ProgressEvent{Message: fmt.Sprintf("Content root: %s (%s)", fs.Root(), strategy), Level: LevelVerbose})
	if !s.settings.PreloadOnStart {
		s.progress(ProgressEvent{Message: "Preload disabled, instances are read from disk", Level: LevelInfo})
		return nil
	}

	for _, folder := range cache.Types() {
		s.reload(folder)
	}
	return nil
}

// Stop drops the preloaded records.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil {
		s.cache.Stop()
	}
}

// FileSystem returns the content filesystem. It is nil before Start.
func (s *Session) FileSystem() *vfs.FileSystem { return s.fs }

// Cache returns the preload cache. It is nil before Start.
func (s *Session) Cache() *preload.Cache { return s.cache }

// Types returns the entity type folders in registration order.
func (s *Session) Types() []string {
	folders := make([]string, len(s.types))
	for i, t := range s.types {
		folders[i] = t.Folder
	}
	return folders
}

// Loader returns the editing loader of a type.
func (s *Session) Loader(typeFolder string) (*loader.Loader, error) {
	ld, ok := s.editors[typeFolder]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeFolder)
	}
	return ld, nil
}

// Dirty reports whether the live instance of a type has unsaved edits.
func (s *Session) Dirty(typeFolder string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty[typeFolder]
}

// List returns the folders, then the instances, directly inside folder.
func (s *Session) List(typeFolder string, folder model.FolderPath) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Loader(typeFolder); err != nil {
		return nil, err
	}
	folders, err := s.fs.Folders(typeFolder, folder)
	if err != nil {
		return nil, err
	}
	instances, err := s.fs.Instances(typeFolder, folder)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(folders)+len(instances))
	for _, name := range folders {
		items = append(items, Item{Name: name, Folder: true})
	}
	for _, name := range instances {
		items = append(items, Item{Name: name})
	}
	return items, nil
}

// Open loads an instance into the editing loader of its type.
func (s *Session) Open(typeFolder, name string, folder model.FolderPath) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ld, err := s.Loader(typeFolder)
	if err != nil {
		return err
	}
	if err := ld.Load(name, folder); err != nil {
		return err
	}
	s.dirty[typeFolder] = false
	s.progress(ProgressEvent{Message: fmt.Sprintf("Opened %s", model.Address{Type: typeFolder, Name: name, Folder: folder}), Level: LevelVerbose})
	return nil
}

// NewInstance clears the editing loader of a type.
func (s *Session) NewInstance(typeFolder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ld, err := s.Loader(typeFolder)
	if err != nil {
		return err
	}
	ld.New()
	s.dirty[typeFolder] = false
	return nil
}

// Save writes the live instance of a type as name in folder and reloads the
// type's cache.
func (s *Session) Save(typeFolder, name string, folder model.FolderPath) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ld, err := s.Loader(typeFolder)
	if err != nil {
		return err
	}
	addr := model.Address{Type: typeFolder, Name: name, Folder: folder}
	if err := ld.Save(name, folder); err != nil {
		s.progress(ProgressEvent{Message: fmt.Sprintf("Error saving %s: %v", addr, err), Level: LevelError})
		return err
	}
	s.dirty[typeFolder] = false
	s.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", addr), Level: LevelSuccess})
	s.reload(typeFolder)
	return nil
}

// CreateFolder creates folder name inside parent.
func (s *Session) CreateFolder(typeFolder string, parent model.FolderPath, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Loader(typeFolder); err != nil {
		return err
	}
	if err := s.fs.CreateFolder(typeFolder, parent, name); err != nil {
		return err
	}
	s.progress(ProgressEvent{Message: fmt.Sprintf("Created folder %s", parent.Join(name)), Level: LevelSuccess})
	return nil
}

// Delete removes a folder or instance recursively and reloads the type's
// cache.
func (s *Session) Delete(typeFolder string, folder model.FolderPath, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Loader(typeFolder); err != nil {
		return err
	}
	var err error
	if item.Folder {
		err = s.fs.DeleteFolder(typeFolder, folder, item.Name)
	} else {
		err = s.fs.DeleteInstance(typeFolder, folder, item.Name)
	}
	if err != nil {
		s.progress(ProgressEvent{Message: fmt.Sprintf("Error deleting %s: %v", folder.Join(item.Name), err), Level: LevelError})
		return err
	}
	s.progress(ProgressEvent{Message: fmt.Sprintf("Deleted %s", folder.Join(item.Name)), Level: LevelSuccess})
	s.reload(typeFolder)
	return nil
}

// Reload rescans one type into the cache.
func (s *Session) Reload(typeFolder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Loader(typeFolder); err != nil {
		return err
	}
	s.reload(typeFolder)
	return nil
}

// reload rescans a type and reports skipped instances as warnings.
func (s *Session) reload(typeFolder string) {
	err := s.cache.ReloadFolder(typeFolder)
	for _, e := range unjoin(err) {
		s.progress(ProgressEvent{Message: fmt.Sprintf("Skipped in %s: %v", typeFolder, e), Level: LevelWarning})
	}
	s.progress(ProgressEvent{Message: fmt.Sprintf("Preloaded %d %s instances", len(s.cache.Names(typeFolder)), typeFolder), Level: LevelInfo})
}

// Import reads the file at path into part partName of the live instance and
// marks it dirty. Images are decoded, audio is probed and referenced, and
// blobs take the file's text.
func (s *Session) Import(typeFolder, partName, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ld, err := s.Loader(typeFolder)
	if err != nil {
		return err
	}
	p, ok := ld.Part(partName)
	if !ok {
		return fmt.Errorf("%w: part %q of %s", model.ErrNotFound, partName, typeFolder)
	}

	var value any
	switch p.Kind() {
	case part.KindImage:
		img, err := s.imageService.ImportImage(s.fsys, path)
		if err != nil {
			return err
		}
		value = img
	case part.KindAudio:
		stream, err := audio.Probe(s.fsys, path)
		if err != nil {
			return err
		}
		value = stream
	case part.KindBlob:
		data, err := afero.ReadFile(s.fsys, path)
		if err != nil {
			return err
		}
		value = string(data)
	default:
		return model.Mismatchf(partName, "cannot import a file into a %s part", p.Kind())
	}

	if err := p.LoadFromRecord(value); err != nil {
		return err
	}
	ld.MarkDirty()
	s.progress(ProgressEvent{Message: fmt.Sprintf("Imported %s into %s", filepath.Base(path), partName), Level: LevelVerbose})
	return nil
}

// Icon returns the icon of an instance scaled to fit the configured icon
// size, or nil when the instance has none.
func (s *Session) Icon(typeFolder, name string, folder model.FolderPath) (*image.NRGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ld, err := s.Loader(typeFolder)
	if err != nil {
		return nil, err
	}
	icon, err := ld.GetIcon(name, folder)
	if err != nil || icon == nil {
		return nil, err
	}
	return s.imageService.ResizeImage(icon, s.settings.IconSize, s.settings.IconSize), nil
}

// Summary describes one part of the live instance of a type.
type Summary struct {
	Part   string
	Kind   part.Kind
	Detail string
}

// Describe summarizes every part of the live instance of a type.
func (s *Session) Describe(typeFolder string) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ld, err := s.Loader(typeFolder)
	if err != nil {
		return nil, err
	}
	rec, err := ld.SaveToRecord()
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, rec.Len())
	for _, name := range ld.PartNames() {
		p, _ := ld.Part(name)
		v, _ := rec.Get(name)
		out = append(out, Summary{Part: name, Kind: p.Kind(), Detail: describe(v)})
	}
	return out, nil
}

func describe(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case *image.NRGBA:
		if v == nil {
			return "(empty)"
		}
		return fmt.Sprintf("%dx%d", v.Bounds().Dx(), v.Bounds().Dy())
	case model.SpriteFrames:
		if len(v.Animations) == 0 {
			return "(no animations)"
		}
		anims := make([]string, len(v.Animations))
		for i, a := range v.Animations {
			size := a.FrameSize()
			loop := ""
			if a.Loops {
				loop = ", loop"
			}
			anims[i] = fmt.Sprintf("%s: %d frames %dx%d @ %g%s", a.Name, len(a.Frames), size.X, size.Y, a.Speed, loop)
		}
		return strings.Join(anims, "; ")
	case *model.AudioStream:
		if v == nil {
			return "(empty)"
		}
		detail := fmt.Sprintf("%s, %d bytes", v.Format, len(v.Data))
		if v.Title != "" {
			detail += fmt.Sprintf(", %q", v.Title)
		}
		if v.Artist != "" {
			detail += " by " + v.Artist
		}
		return detail
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (s *Session) progress(event ProgressEvent) {
	if s.onProgress != nil {
		s.onProgress(event)
	}
}

// unjoin flattens an errors.Join tree one level.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return slices.Clone(joined.Unwrap())
	}
	return []error{err}
}
