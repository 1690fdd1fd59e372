package preload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	ioutils "github.com/handiism/gamedata/internal/io"
	"github.com/handiism/gamedata/internal/loader"
	"github.com/handiism/gamedata/internal/model"
)

// ErrUnknownType is returned for a type folder that was never registered.
var ErrUnknownType = errors.New("unknown entity type")

// Entry is one cached instance.
type Entry struct {
	Name   string
	Folder model.FolderPath
	Record model.Record
}

// Address returns the instance address of the entry within typeFolder.
func (e Entry) Address(typeFolder string) model.Address {
	return model.Address{Type: typeFolder, Name: e.Name, Folder: e.Folder}
}

type typeCache struct {
	scanner *loader.Loader

	// scan serializes scans, which reuse the live values of scanner.
	scan sync.Mutex

	entries []Entry
	index   map[string]int
}

// Cache holds the preloaded records of every registered entity type.
type Cache struct {
	mu     sync.RWMutex
	types  map[string]*typeCache
	order  []string
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for scan progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		types:  make(map[string]*typeCache),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds an entity type. scanner must be a loader dedicated to the
// cache: its live values are overwritten by every scan, and it must not read
// from this cache itself.
func (c *Cache) Register(scanner *loader.Loader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	folder := scanner.Folder()
	if _, ok := c.types[folder]; ok {
		return fmt.Errorf("preload: type %q already registered", folder)
	}
	c.types[folder] = &typeCache{scanner: scanner}
	c.order = append(c.order, folder)
	return nil
}

// Types returns the registered type folders in registration order.
func (c *Cache) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Start scans every registered type. Instances that fail to load are
// skipped; their errors are joined into the returned error.
func (c *Cache) Start() error {
	var errs []error
	for _, folder := range c.Types() {
		if err := c.ReloadFolder(folder); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stop drops every cached record. Registrations are kept.
func (c *Cache) Stop() {
	for _, folder := range c.Types() {
		c.InvalidateFolder(folder)
	}
}

// Record returns the cached record of instance name in folder, implementing
// loader.RecordSource. name and folder are matched by their on-disk
// spelling, so "Boss: 1" finds the instance stored as "Boss 1".
func (c *Cache) Record(typeFolder, name string, folder model.FolderPath) (model.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tc, ok := c.types[typeFolder]
	if !ok {
		return model.Record{}, false
	}
	i, ok := tc.index[key(name, folder)]
	if !ok {
		return model.Record{}, false
	}
	return tc.entries[i].Record, true
}

// FindByName returns the first cached instance called name in any folder of
// the type, in scan order.
func (c *Cache) FindByName(typeFolder, name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tc, ok := c.types[typeFolder]
	if !ok {
		return Entry{}, false
	}
	name = ioutils.SanitizeFileName(name)
	for _, e := range tc.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the names of all cached instances of the type in scan order.
func (c *Cache) Names(typeFolder string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tc, ok := c.types[typeFolder]
	if !ok {
		return nil
	}
	names := make([]string, len(tc.entries))
	for i, e := range tc.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the cached entries of the type in scan order.
func (c *Cache) Entries(typeFolder string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tc, ok := c.types[typeFolder]
	if !ok {
		return nil
	}
	return slices.Clone(tc.entries)
}

// InvalidateFolder drops the cached records of the type without rescanning.
func (c *Cache) InvalidateFolder(typeFolder string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tc, ok := c.types[typeFolder]; ok {
		tc.entries = nil
		tc.index = nil
	}
}

// ReloadFolder clears the type and rescans its whole folder tree.
//
// Every instance that loads is cached even when others fail; the failures
// are joined into the returned error.
func (c *Cache) ReloadFolder(typeFolder string) error {
	c.mu.RLock()
	tc, ok := c.types[typeFolder]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, typeFolder)
	}

	tc.scan.Lock()
	defer tc.scan.Unlock()

	c.InvalidateFolder(typeFolder)

	fs := tc.scanner.FileSystem()
	if err := fs.CreateTypeFolder(typeFolder); err != nil {
		return err
	}

	var (
		entries []Entry
		errs    []error
	)
	var walk func(folder model.FolderPath)
	walk = func(folder model.FolderPath) {
		dir := fs.FolderDir(typeFolder, folder)

		names, err := fs.FilesAt(dir)
		if err != nil {
			errs = append(errs, err)
			return
		}
		for _, name := range names {
			rec, err := c.snapshot(tc.scanner, name, folder)
			if err != nil {
				c.logger.Warn("skipping instance", "type", typeFolder, "name", name, "folder", folder.String(), "err", err)
				errs = append(errs, err)
				continue
			}
			entries = append(entries, Entry{Name: name, Folder: slices.Clone(folder), Record: rec})
		}

		subfolders, err := fs.FoldersAt(dir)
		if err != nil {
			errs = append(errs, err)
			return
		}
		for _, sub := range subfolders {
			walk(folder.Join(sub))
		}
	}
	walk(nil)

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		k := key(e.Name, e.Folder)
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}

	c.mu.Lock()
	tc.entries = entries
	tc.index = index
	c.mu.Unlock()

	c.logger.Info("preloaded type", "type", typeFolder, "instances", len(entries), "skipped", len(errs))
	return errors.Join(errs...)
}

func (c *Cache) snapshot(scanner *loader.Loader, name string, folder model.FolderPath) (model.Record, error) {
	if err := scanner.LoadFromDisk(name, folder); err != nil {
		return model.Record{}, err
	}
	return scanner.SaveToRecord()
}

// key spells an address the way the filesystem resolves it: segments are
// sanitized and those that sanitize to nothing are dropped.
func key(name string, folder model.FolderPath) string {
	segs := make([]string, 0, len(folder))
	for _, seg := range folder {
		if seg = ioutils.SanitizeFileName(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	return model.FolderPath(segs).String() + "\x00" + ioutils.SanitizeFileName(name)
}
