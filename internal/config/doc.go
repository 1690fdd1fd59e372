// Package config provides configuration management for gamedata.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion of the directory mode to a vfs.Strategy
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Content root ./GameData
//	// Marker directory strategy
//	// Preload on start
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/gamedata.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// LoadFs and SaveFs do the same on any afero.Fs, which tests use with an
// in-memory filesystem.
//
// # Saving Settings
//
//	settings.DirectoryMode = "suffix"
//	err := settings.Save("/path/to/gamedata.json")
//
// The directory mode of a content root is fixed for its lifetime: the three
// strategies lay out the tree differently and are not interchangeable.
package config
