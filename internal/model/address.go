package model

import "strings"

// PathSeparator separates folder segments in the textual form of a FolderPath.
const PathSeparator = "/"

// FolderPath is the ordered list of folder segments an instance is nested
// under, relative to its entity type's root folder.
//
// Segments are stored marker-free: the directory strategy decides how each
// segment is spelled on disk. The zero value is the root.
//
// Example:
//
//	p := model.ParseFolderPath("Bosses/Act1")
//	p.String()        // "Bosses/Act1"
//	p.Join("Hidden")  // Bosses/Act1/Hidden
//	p.Parent()        // Bosses
type FolderPath []string

// ParseFolderPath splits a slash separated path into segments, dropping
// empty segments. Backslashes are accepted as separators as well.
func ParseFolderPath(s string) FolderPath {
	s = strings.ReplaceAll(s, "\\", PathSeparator)
	var p FolderPath
	for _, seg := range strings.Split(s, PathSeparator) {
		if seg = strings.TrimSpace(seg); seg != "" {
			p = append(p, seg)
		}
	}
	return p
}

// String joins the segments with PathSeparator. The root is "".
func (p FolderPath) String() string {
	return strings.Join(p, PathSeparator)
}

// IsRoot reports whether the path has no segments.
func (p FolderPath) IsRoot() bool {
	return len(p) == 0
}

// Join returns a new path with name appended. The receiver is not modified.
func (p FolderPath) Join(name string) FolderPath {
	out := make(FolderPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Parent returns the path without its last segment. The parent of the root
// is the root.
func (p FolderPath) Parent() FolderPath {
	if len(p) == 0 {
		return nil
	}
	out := make(FolderPath, len(p)-1)
	copy(out, p[:len(p)-1])
	return out
}

// Equal reports whether both paths have the same segments.
func (p FolderPath) Equal(other FolderPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Address identifies one instance of an entity type.
type Address struct {
	// Type is the entity type's root folder name.
	Type string

	// Name is the instance name, unique within (Type, Folder).
	Name string

	// Folder is the folder path the instance is nested under.
	Folder FolderPath
}

// String renders the address as "Type:Folder/Name".
func (a Address) String() string {
	if a.Folder.IsRoot() {
		return a.Type + ":" + a.Name
	}
	return a.Type + ":" + a.Folder.String() + PathSeparator + a.Name
}
