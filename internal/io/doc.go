// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File copying and writing on an afero.Fs
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Image encoding by extension, frame strips and resizing
//
// # File Operations
//
//	fsys := afero.NewOsFs()
//
//	// Copy a file
//	err := ioutils.CopyFile(fsys, "/sounds/jump.ogg", "/GameData/Hero/Voice.ogg")
//
//	// Write data to file, creating the parent directory
//	err := ioutils.WriteFile(fsys, "/GameData/Hero/Data.json", []byte("{}"))
//
// # Filename Sanitization
//
// Use SanitizeFileName to strip invalid characters from instance names:
//
//	safe := ioutils.SanitizeFileName("Boss: Act 1/2") // Returns "Boss Act 12"
//
// # Image Processing
//
//	strip := ioutils.CombineFrames(frames)     // frames side by side
//	frames := ioutils.SplitFrames(strip, 4)     // and back
//
//	svc := ioutils.NewImageService()
//	thumb := svc.ResizeImage(sprite, 64, 64)
package ioutils
