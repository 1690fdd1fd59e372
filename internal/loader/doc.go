// Package loader orchestrates the parts of one entity type for a single
// instance at a time.
//
// # Loader
//
// A Loader holds an ordered set of parts, each bound to a live value owned by
// the host (an editor widget, a CLI command, a test). It resolves instance
// addresses through a vfs.FileSystem and reads or writes every part in
// declared order:
//
//	ld, err := loader.New(fs, loader.Descriptor{
//	    Folder: "Sample",
//	    Icon:   "Sprite",
//	    Parts:  []*part.Part{data, sprite},
//	}, loader.WithRecords(cache))
//
//	if err := ld.Load("Hero", nil); err != nil {
//	    log.Fatal(err)
//	}
//
// # Records
//
// When a RecordSource is configured, Load answers from the cached Record of
// the instance without touching the disk and only falls back to the
// filesystem on a miss. Save always writes to disk; the cache is never
// patched, callers reload it explicitly.
//
// # Notifications
//
// Editors call MarkDirty after changing a live value; the loader forwards it
// to every OnDirty observer. OnExternalChange observers run once after Load
// or New has updated every part, never between parts.
package loader
