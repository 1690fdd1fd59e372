package vfs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	ioutils "github.com/handiism/gamedata/internal/io"
	"github.com/handiism/gamedata/internal/model"
)

// IgnoreFile is written into the content root so game engines that scan
// the project tree skip the store.
const IgnoreFile = ".gdignore"

var (
	// ErrInvalidName is returned when a name is empty after sanitizing.
	ErrInvalidName = errors.New("invalid name")

	// ErrNameConflict is returned when an instance and a folder would share
	// one directory.
	ErrNameConflict = errors.New("name already used")
)

// FileSystem resolves instance addresses below a content root.
type FileSystem struct {
	fs       afero.Fs
	root     string
	strategy Strategy
	logger   *slog.Logger
}

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(v *FileSystem) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a FileSystem rooted at root on fsys.
//
// An unknown strategy is a programming error and is reported as
// model.ErrImpossible.
func New(fsys afero.Fs, root string, strategy Strategy, opts ...Option) (*FileSystem, error) {
	if !strategy.valid() {
		return nil, fmt.Errorf("%w: unknown directory strategy %d", model.ErrImpossible, int(strategy))
	}
	v := &FileSystem{
		fs:       fsys,
		root:     filepath.Clean(root),
		strategy: strategy,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Fs returns the underlying filesystem.
func (v *FileSystem) Fs() afero.Fs { return v.fs }

// Root returns the content root.
func (v *FileSystem) Root() string { return v.root }

// Strategy returns the directory strategy.
func (v *FileSystem) Strategy() Strategy { return v.strategy }

// EnsureRoot creates the content root and its ignore file.
func (v *FileSystem) EnsureRoot() error {
	if err := ioutils.EnsureDir(v.fs, v.root); err != nil {
		return model.NewWriteError(v.root, err)
	}
	ignore := filepath.Join(v.root, IgnoreFile)
	if err := ioutils.TouchFile(v.fs, ignore); err != nil {
		return model.NewWriteError(ignore, err)
	}
	return nil
}

// CreateTypeFolder creates the root folder of an entity type.
func (v *FileSystem) CreateTypeFolder(typeFolder string) error {
	dir := filepath.Join(v.root, typeFolder)
	if err := ioutils.EnsureDir(v.fs, dir); err != nil {
		return model.NewWriteError(dir, err)
	}
	return nil
}

// FolderName returns the on-disk spelling of a folder segment.
func (v *FileSystem) FolderName(name string) string {
	if v.strategy == StrategySuffix {
		return name + FolderSuffix
	}
	return name
}

// FileName returns the on-disk spelling of an instance directory.
func (v *FileSystem) FileName(name string) string {
	if v.strategy == StrategySuffix {
		return name + FileSuffix
	}
	return name
}

// FolderDir returns the physical directory of folder below the root of
// typeFolder. It does not touch the disk.
func (v *FileSystem) FolderDir(typeFolder string, folder model.FolderPath) string {
	parts := make([]string, 0, len(folder)+2)
	parts = append(parts, v.root, typeFolder)
	for _, seg := range folder {
		parts = append(parts, v.FolderName(ioutils.SanitizeFileName(seg)))
	}
	return filepath.Join(parts...)
}

// InstanceDir resolves the directory of instance name in folder.
//
// In Read mode a missing directory is reported as model.ErrNotFound. In
// Write mode missing folders are created with their markers, then the
// instance directory and its leaf marker. A name already taken by a folder
// is reported as ErrNameConflict.
func (v *FileSystem) InstanceDir(typeFolder, name string, folder model.FolderPath, mode Mode) (string, error) {
	clean := ioutils.SanitizeFileName(name)
	if clean == "" {
		return "", fmt.Errorf("%w: instance %q", ErrInvalidName, name)
	}
	dir := filepath.Join(v.FolderDir(typeFolder, folder), v.FileName(clean))

	exists, err := ioutils.DirExists(v.fs, dir)
	if err != nil {
		return "", err
	}

	if mode != Write {
		if exists {
			return dir, nil
		}
		addr := model.Address{Type: typeFolder, Name: name, Folder: folder}
		return "", fmt.Errorf("%w: instance %s at %s", model.ErrNotFound, addr, dir)
	}

	if err := v.checkNotFolder(dir, exists); err != nil {
		return "", err
	}
	if !exists {
		if err := v.ensureFolders(typeFolder, folder); err != nil {
			return "", err
		}
		if err := ioutils.EnsureDir(v.fs, dir); err != nil {
			return "", model.NewWriteError(dir, err)
		}
		v.logger.Debug("created instance directory", "type", typeFolder, "name", clean, "folder", folder.String(), "dir", dir)
	}
	// Touched on every write so a directory that lost its marker is listed
	// again.
	if v.strategy == StrategyMarker {
		if err := ioutils.TouchFile(v.fs, dir+FileMarkerExt); err != nil {
			return "", model.NewWriteError(dir+FileMarkerExt, err)
		}
	}
	return dir, nil
}

// checkNotFolder reports ErrNameConflict when dir is already a folder.
func (v *FileSystem) checkNotFolder(dir string, exists bool) error {
	switch v.strategy {
	case StrategyMarker:
		taken, err := ioutils.Exists(v.fs, dir+FolderMarkerExt)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s is a folder", ErrNameConflict, dir)
		}
	case StrategyAuto:
		if !exists {
			return nil
		}
		branch, err := v.hasSubdirs(dir)
		if err != nil {
			return err
		}
		if branch {
			return fmt.Errorf("%w: %s is a folder", ErrNameConflict, dir)
		}
	}
	return nil
}

// ensureFolders creates every segment of folder that does not exist yet,
// together with its branch marker.
func (v *FileSystem) ensureFolders(typeFolder string, folder model.FolderPath) error {
	for i := range folder {
		if err := v.CreateFolder(typeFolder, folder[:i], folder[i]); err != nil {
			return err
		}
	}
	return nil
}

// FoldersAt lists the folder names (markers stripped) directly under dir.
// A missing dir is reported as model.ErrNotFound.
func (v *FileSystem) FoldersAt(dir string) ([]string, error) {
	return v.list(dir, true)
}

// FilesAt lists the instance names (markers stripped) directly under dir.
// A missing dir is reported as model.ErrNotFound.
func (v *FileSystem) FilesAt(dir string) ([]string, error) {
	return v.list(dir, false)
}

// Folders lists the folders directly inside folder of typeFolder.
func (v *FileSystem) Folders(typeFolder string, folder model.FolderPath) ([]string, error) {
	return v.FoldersAt(v.FolderDir(typeFolder, folder))
}

// Instances lists the instances directly inside folder of typeFolder.
func (v *FileSystem) Instances(typeFolder string, folder model.FolderPath) ([]string, error) {
	return v.FilesAt(v.FolderDir(typeFolder, folder))
}

func (v *FileSystem) list(dir string, folders bool) ([]string, error) {
	infos, err := afero.ReadDir(v.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s", model.ErrNotFound, dir)
		}
		return nil, err
	}

	dirs := make(map[string]bool, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			dirs[info.Name()] = true
		}
	}

	names := []string{}
	switch v.strategy {
	case StrategyMarker:
		ext := FileMarkerExt
		if folders {
			ext = FolderMarkerExt
		}
		for _, info := range infos {
			name, ok := strings.CutSuffix(info.Name(), ext)
			// A marker whose directory is gone is left over from an
			// interrupted delete.
			if ok && !info.IsDir() && name != "" && dirs[name] {
				names = append(names, name)
			}
		}
	case StrategySuffix:
		suffix := FileSuffix
		if folders {
			suffix = FolderSuffix
		}
		for _, info := range infos {
			name, ok := strings.CutSuffix(info.Name(), suffix)
			if ok && info.IsDir() && name != "" {
				names = append(names, name)
			}
		}
	case StrategyAuto:
		for _, info := range infos {
			if !info.IsDir() {
				continue
			}
			branch, err := v.hasSubdirs(filepath.Join(dir, info.Name()))
			if err != nil {
				return nil, err
			}
			if branch == folders {
				names = append(names, info.Name())
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown directory strategy %d", model.ErrImpossible, int(v.strategy))
	}
	return names, nil
}

func (v *FileSystem) hasSubdirs(dir string) (bool, error) {
	infos, err := afero.ReadDir(v.fs, dir)
	if err != nil {
		return false, err
	}
	for _, info := range infos {
		if info.IsDir() {
			return true, nil
		}
	}
	return false, nil
}

// CreateFolder creates folder name inside parent, with its branch marker.
// Creating an existing folder is not an error.
func (v *FileSystem) CreateFolder(typeFolder string, parent model.FolderPath, name string) error {
	clean := ioutils.SanitizeFileName(name)
	if clean == "" {
		return fmt.Errorf("%w: folder %q", ErrInvalidName, name)
	}
	dir := filepath.Join(v.FolderDir(typeFolder, parent), v.FolderName(clean))
	if v.strategy == StrategyMarker {
		taken, err := ioutils.Exists(v.fs, dir+FileMarkerExt)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s is an instance", ErrNameConflict, dir)
		}
	}
	if err := ioutils.EnsureDir(v.fs, dir); err != nil {
		return model.NewWriteError(dir, err)
	}
	if v.strategy == StrategyMarker {
		if err := ioutils.TouchFile(v.fs, dir+FolderMarkerExt); err != nil {
			return model.NewWriteError(dir+FolderMarkerExt, err)
		}
	}
	v.logger.Debug("created folder", "type", typeFolder, "parent", parent.String(), "name", clean)
	return nil
}

// DeleteFolder removes folder name inside parent with everything below it,
// then its marker.
func (v *FileSystem) DeleteFolder(typeFolder string, parent model.FolderPath, name string) error {
	clean := ioutils.SanitizeFileName(name)
	if clean == "" {
		return fmt.Errorf("%w: folder %q", ErrInvalidName, name)
	}
	dir := filepath.Join(v.FolderDir(typeFolder, parent), v.FolderName(clean))
	return v.deleteTree(dir, FolderMarkerExt)
}

// DeleteInstance removes instance name inside parent with all its part
// files, then its marker.
func (v *FileSystem) DeleteInstance(typeFolder string, parent model.FolderPath, name string) error {
	clean := ioutils.SanitizeFileName(name)
	if clean == "" {
		return fmt.Errorf("%w: instance %q", ErrInvalidName, name)
	}
	dir := filepath.Join(v.FolderDir(typeFolder, parent), v.FileName(clean))
	return v.deleteTree(dir, FileMarkerExt)
}

// deleteTree removes dir recursively before its marker, so an interrupted
// delete leaves at most a marker without a directory, which listing ignores.
func (v *FileSystem) deleteTree(dir, markerExt string) error {
	dirExists, err := ioutils.DirExists(v.fs, dir)
	if err != nil {
		return err
	}
	marker := dir + markerExt
	markerExists := false
	if v.strategy == StrategyMarker {
		if markerExists, err = ioutils.Exists(v.fs, marker); err != nil {
			return err
		}
	}
	if !dirExists && !markerExists {
		return fmt.Errorf("%w: %s", model.ErrNotFound, dir)
	}

	if err := v.fs.RemoveAll(dir); err != nil {
		return model.NewWriteError(dir, err)
	}
	if v.strategy == StrategyMarker {
		if err := ioutils.RemoveIfExists(v.fs, marker); err != nil {
			return model.NewWriteError(marker, err)
		}
	}
	v.logger.Debug("deleted", "dir", dir)
	return nil
}
