// Package ioutils provides file system utilities for the game data store.
//
// This package contains functions for:
//   - File copying
//   - File writing and optional reading
//   - Filename sanitization
//   - Directory creation
//
// Every function takes the afero.Fs to operate on, so the same code runs
// against the OS filesystem and an in-memory one.
package ioutils

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	repeatedSpace = regexp.MustCompile(`\s+`)
)

// CopyFile copies a file from source to destination on fsys.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
//
// Returns an error if:
//   - Source file cannot be opened
//   - Destination file cannot be created
//   - Copy operation fails
//
// Example:
//
//	err := CopyFile(fsys, "/sounds/jump.ogg", "/GameData/Character/Hero/Voice.ogg")
func CopyFile(fsys afero.Fs, src, dst string) error {
	sourceFile, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := fsys.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

// WriteFile writes data to a file, creating it if necessary.
//
// The parent directory is created first. The file is created with mode
// 0644; an existing file is truncated before writing.
func WriteFile(fsys afero.Fs, path string, data []byte) error {
	if err := EnsureDir(fsys, filepath.Dir(path)); err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0644)
}

// ReadFileIfExists reads a whole file. A missing file is not an error:
// ok is false and data is nil.
func ReadFileIfExists(fsys afero.Fs, path string) (data []byte, ok bool, err error) {
	data, err = afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// RemoveIfExists removes a single file, ignoring a missing one.
func RemoveIfExists(fsys afero.Fs, path string) error {
	if err := fsys.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// TouchFile creates an empty file if it does not exist yet. Existing
// contents are left alone.
func TouchFile(fsys afero.Fs, path string) error {
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

// SanitizeFileName strips characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → removed
//   - Multiple whitespace → single space
//   - Trailing dots and spaces → removed (Windows limitation)
//   - Leading whitespace → removed
//
// Names made only of dots, such as "." and "..", sanitize to "".
//
// Example:
//
//	SanitizeFileName("Boss: Act 1/2")  // Returns "Boss Act 12"
//	SanitizeFileName("Hero...")        // Returns "Hero"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "")
	name = repeatedSpace.ReplaceAllString(name, " ")
	name = strings.TrimRight(name, ". ")
	return strings.TrimSpace(name)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(fsys afero.Fs, path string) error {
	return fsys.MkdirAll(path, 0755)
}

// Exists reports whether path exists. Errors other than "not exist" are
// returned.
func Exists(fsys afero.Fs, path string) (bool, error) {
	return afero.Exists(fsys, path)
}

// DirExists reports whether path exists and is a directory.
func DirExists(fsys afero.Fs, path string) (bool, error) {
	return afero.DirExists(fsys, path)
}
