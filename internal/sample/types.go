package sample

import (
	"github.com/handiism/gamedata/internal/loader"
	"github.com/handiism/gamedata/internal/vfs"
)

// Type describes an entity type and how to build a loader with fresh live
// values for it.
type Type struct {
	Folder string
	Build  func(fs *vfs.FileSystem, opts ...loader.Option) (*loader.Loader, error)
}

// Types returns the entity types in registration order.
func Types() []Type {
	return []Type{
		{
			Folder: SampleFolder,
			Build: func(fs *vfs.FileSystem, opts ...loader.Option) (*loader.Loader, error) {
				s, err := NewSample(fs, opts...)
				if err != nil {
					return nil, err
				}
				return s.Loader, nil
			},
		},
		{
			Folder: CharacterFolder,
			Build: func(fs *vfs.FileSystem, opts ...loader.Option) (*loader.Loader, error) {
				c, err := NewCharacter(fs, opts...)
				if err != nil {
					return nil, err
				}
				return c.Loader, nil
			},
		},
	}
}

// Lookup returns the type stored under folder.
func Lookup(folder string) (Type, bool) {
	for _, t := range Types() {
		if t.Folder == folder {
			return t, true
		}
	}
	return Type{}, false
}
