package loader

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	ioutils "github.com/handiism/gamedata/internal/io"
	"github.com/handiism/gamedata/internal/model"
	"github.com/handiism/gamedata/internal/part"
	"github.com/handiism/gamedata/internal/vfs"
)

// Descriptor is the static description of an entity type.
type Descriptor struct {
	// Folder is the root folder of the type below the content root.
	Folder string

	// Icon names the image or sprite set part shown as the instance icon.
	// Empty means the type has no icon.
	Icon string

	// Parts in load and save order. Names must be unique.
	Parts []*part.Part
}

// RecordSource answers record lookups, typically the preload cache.
type RecordSource interface {
	Record(typeFolder, name string, folder model.FolderPath) (model.Record, bool)
}

// Loader loads and saves instances of one entity type.
type Loader struct {
	fs      *vfs.FileSystem
	desc    Descriptor
	records RecordSource
	logger  *slog.Logger

	onDirty  []func()
	onChange []func()
}

// Option configures a Loader.
type Option func(*Loader)

// WithRecords makes Load consult src before reading the disk.
func WithRecords(src RecordSource) Option {
	return func(l *Loader) {
		l.records = src
	}
}

// WithLogger sets the logger used for per-instance debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New validates desc and creates a Loader for it.
//
// Part names must be unique, the icon must name an image or sprite set
// part, and sprite sets cannot be hosted by the Auto strategy because their
// subdirectory would turn the instance into a folder.
func New(fs *vfs.FileSystem, desc Descriptor, opts ...Option) (*Loader, error) {
	if desc.Folder == "" {
		return nil, errors.New("loader: descriptor has no folder")
	}

	seen := make(map[string]bool, len(desc.Parts))
	for _, p := range desc.Parts {
		if p == nil {
			return nil, fmt.Errorf("loader %s: nil part", desc.Folder)
		}
		// Part names become file and directory names inside the instance.
		if name := p.Name(); name == "" || ioutils.SanitizeFileName(name) != name {
			return nil, fmt.Errorf("loader %s: part name %q is not a valid file name", desc.Folder, name)
		}
		if seen[p.Name()] {
			return nil, fmt.Errorf("loader %s: duplicate part %q", desc.Folder, p.Name())
		}
		seen[p.Name()] = true
		if p.Kind() == part.KindSpriteSet && fs.Strategy() == vfs.StrategyAuto {
			return nil, fmt.Errorf("loader %s: sprite set %q cannot be stored with the %s strategy", desc.Folder, p.Name(), fs.Strategy())
		}
	}

	l := &Loader{
		fs:     fs,
		desc:   desc,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if desc.Icon != "" {
		icon, ok := l.part(desc.Icon)
		if !ok {
			return nil, fmt.Errorf("loader %s: icon part %q is not declared", desc.Folder, desc.Icon)
		}
		if k := icon.Kind(); k != part.KindImage && k != part.KindSpriteSet {
			return nil, fmt.Errorf("loader %s: icon part %q is a %s part", desc.Folder, desc.Icon, k)
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Folder returns the type's root folder name.
func (l *Loader) Folder() string { return l.desc.Folder }

// FileSystem returns the filesystem the loader resolves addresses on.
func (l *Loader) FileSystem() *vfs.FileSystem { return l.fs }

// PartNames returns the declared part names in order.
func (l *Loader) PartNames() []string {
	names := make([]string, len(l.desc.Parts))
	for i, p := range l.desc.Parts {
		names[i] = p.Name()
	}
	return names
}

// Part returns the declared part called name.
func (l *Loader) Part(name string) (*part.Part, bool) { return l.part(name) }

func (l *Loader) part(name string) (*part.Part, bool) {
	for _, p := range l.desc.Parts {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Load populates every part with instance name in folder.
//
// A cached record is used when one exists; otherwise the instance is read
// from disk and must already exist (model.ErrNotFound otherwise).
// OnExternalChange observers run once every part is loaded.
func (l *Loader) Load(name string, folder model.FolderPath) error {
	if l.records != nil {
		if rec, ok := l.records.Record(l.desc.Folder, name, folder); ok {
			if err := l.LoadRecord(rec); err != nil {
				return err
			}
			l.logger.Debug("loaded instance from cache", "type", l.desc.Folder, "name", name, "folder", folder.String())
			l.notifyChange()
			return nil
		}
	}

	if err := l.LoadFromDisk(name, folder); err != nil {
		return err
	}
	l.notifyChange()
	return nil
}

// LoadFromDisk reads every part of the instance straight from disk without
// consulting the cache or notifying observers.
func (l *Loader) LoadFromDisk(name string, folder model.FolderPath) error {
	dir, err := l.fs.InstanceDir(l.desc.Folder, name, folder, vfs.Read)
	if err != nil {
		return err
	}
	for _, p := range l.desc.Parts {
		if err := p.Load(l.fs.Fs(), dir); err != nil {
			return fmt.Errorf("load %s: %w", model.Address{Type: l.desc.Folder, Name: name, Folder: folder}, err)
		}
	}
	l.logger.Debug("loaded instance from disk", "type", l.desc.Folder, "name", name, "folder", folder.String(), "dir", dir)
	return nil
}

// Save writes every part of the live instance as name in folder, creating
// the instance directory if needed. The first failing part aborts the save.
func (l *Loader) Save(name string, folder model.FolderPath) error {
	addr := model.Address{Type: l.desc.Folder, Name: name, Folder: folder}
	dir, err := l.fs.InstanceDir(l.desc.Folder, name, folder, vfs.Write)
	if err != nil {
		l.logger.Error("resolve instance failed", "instance", addr.String(), "err", err)
		return err
	}
	for _, p := range l.desc.Parts {
		if err := p.Save(l.fs.Fs(), dir); err != nil {
			l.logger.Error("save part failed", "instance", addr.String(), "part", p.Name(), "err", err)
			return fmt.Errorf("save %s: %w", addr, err)
		}
	}
	l.logger.Debug("saved instance", "instance", addr.String(), "dir", dir)
	return nil
}

// New clears every part, representing a blank unsaved instance.
func (l *Loader) New() {
	for _, p := range l.desc.Parts {
		p.Clear()
	}
	l.notifyChange()
}

// SaveToRecord snapshots every live part value into a Record.
func (l *Loader) SaveToRecord() (model.Record, error) {
	entries := make([]model.Entry, 0, len(l.desc.Parts))
	for _, p := range l.desc.Parts {
		v, err := p.SaveToRecord()
		if err != nil {
			return model.Record{}, err
		}
		entries = append(entries, model.Entry{Part: p.Name(), Value: v})
	}
	return model.NewRecord(entries...)
}

// LoadRecord restores every live part value from rec without touching the
// disk. rec must hold exactly the declared parts. Parts are restored in
// declared order and the first mismatch stops the restore.
func (l *Loader) LoadRecord(rec model.Record) error {
	if err := rec.Covers(l.PartNames()); err != nil {
		return err
	}
	for _, p := range l.desc.Parts {
		v, _ := rec.Get(p.Name())
		if err := p.LoadFromRecord(v); err != nil {
			return err
		}
	}
	return nil
}

// GetIcon returns the icon image of an instance without touching the live
// values. It returns nil when the type has no icon part or the instance has
// no icon file.
func (l *Loader) GetIcon(name string, folder model.FolderPath) (*image.NRGBA, error) {
	if l.desc.Icon == "" {
		return nil, nil
	}
	icon, _ := l.part(l.desc.Icon)

	if l.records != nil {
		if rec, ok := l.records.Record(l.desc.Folder, name, folder); ok {
			v, ok := rec.Get(icon.Name())
			if !ok {
				return nil, model.Mismatchf(icon.Name(), "missing from record")
			}
			return icon.RecordImage(v)
		}
	}

	dir, err := l.fs.InstanceDir(l.desc.Folder, name, folder, vfs.Read)
	if err != nil {
		return nil, err
	}
	return icon.ReadImage(l.fs.Fs(), dir)
}

// MarkDirty forwards an edit notification to every OnDirty observer.
func (l *Loader) MarkDirty() {
	for _, fn := range l.onDirty {
		fn()
	}
}

// OnDirty registers fn to run on MarkDirty.
func (l *Loader) OnDirty(fn func()) {
	l.onDirty = append(l.onDirty, fn)
}

// OnExternalChange registers fn to run after Load or New replaced the live
// values.
func (l *Loader) OnExternalChange(fn func()) {
	l.onChange = append(l.onChange, fn)
}

func (l *Loader) notifyChange() {
	for _, fn := range l.onChange {
		fn()
	}
}
