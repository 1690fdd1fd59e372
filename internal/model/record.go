package model

import (
	"fmt"
	"slices"
)

// Entry is one part's value inside a Record.
type Entry struct {
	Part  string
	Value any
}

// Record is an immutable snapshot of every part value of one instance.
//
// The value type of each entry depends on the part kind:
//   - serializable blob: string
//   - image: *image.NRGBA (nil when cleared)
//   - sprite animation set: SpriteFrames
//   - audio stream reference: *AudioStream (nil when cleared)
//
// Records are produced by snapshotting live parts and consumed only to
// repopulate live parts. They are never patched in place.
type Record struct {
	entries []Entry
}

// NewRecord builds a Record from entries. Part names must be unique.
func NewRecord(entries ...Entry) (Record, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Part]; dup {
			return Record{}, fmt.Errorf("record: duplicate part %q", e.Part)
		}
		seen[e.Part] = struct{}{}
	}
	return Record{entries: slices.Clone(entries)}, nil
}

// Get returns the value stored for part.
func (r Record) Get(part string) (any, bool) {
	for _, e := range r.entries {
		if e.Part == part {
			return e.Value, true
		}
	}
	return nil, false
}

// Parts returns the part names in snapshot order.
func (r Record) Parts() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Part
	}
	return names
}

// Len returns the number of entries.
func (r Record) Len() int { return len(r.entries) }

// IsZero reports whether the record holds no entries.
func (r Record) IsZero() bool { return len(r.entries) == 0 }

// Covers checks that the record holds exactly one entry per declared part
// name and nothing else.
func (r Record) Covers(parts []string) error {
	if len(parts) != len(r.entries) {
		return Mismatchf("*", "record has %d entries, type declares %d parts", len(r.entries), len(parts))
	}
	for _, name := range parts {
		if _, ok := r.Get(name); !ok {
			return Mismatchf(name, "missing from record")
		}
	}
	return nil
}
