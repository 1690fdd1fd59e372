package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/handiism/gamedata/internal/vfs"
)

// DefaultFileName is the settings file looked up next to the content root
// when no path is given.
const DefaultFileName = "gamedata.json"

// Settings holds all configuration options.
type Settings struct {
	// Storage
	ContentRoot   string `json:"content_root"`
	DirectoryMode string `json:"directory_mode"` // marker, suffix, auto

	// Session
	PreloadOnStart bool `json:"preload_on_start"`

	// Logging
	LogLevel  string `json:"log_level"`  // debug, info, warn, error
	LogFormat string `json:"log_format"` // text, json

	// Thumbnail edge used by the icon command
	IconSize int `json:"icon_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ContentRoot:    filepath.Join(".", "GameData"),
		DirectoryMode:  vfs.StrategyMarker.String(),
		PreloadOnStart: true,
		LogLevel:       "info",
		LogFormat:      "text",
		IconSize:       64,
	}
}

// Load reads settings from a JSON file on the local disk.
func Load(path string) (*Settings, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads settings from a JSON file on fsys. Keys missing from the file
// keep their default; a missing file yields the defaults.
func LoadFs(fsys afero.Fs, path string) (*Settings, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file on the local disk.
func (s *Settings) Save(path string) error {
	return s.SaveFs(afero.NewOsFs(), path)
}

// SaveFs writes settings to a JSON file on fsys.
func (s *Settings) SaveFs(fsys afero.Fs, path string) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return afero.WriteFile(fsys, path, data, 0644)
}

// ToStrategy converts DirectoryMode to a vfs.Strategy.
func (s *Settings) ToStrategy() (vfs.Strategy, error) {
	return vfs.ParseStrategy(s.DirectoryMode)
}

// Validate reports the first setting that cannot be used.
func (s *Settings) Validate() error {
	if s.ContentRoot == "" {
		return errors.New("content_root is empty")
	}
	if _, err := s.ToStrategy(); err != nil {
		return fmt.Errorf("directory_mode: %w", err)
	}
	if s.IconSize <= 0 {
		return fmt.Errorf("icon_size must be positive, got %d", s.IconSize)
	}
	return nil
}
