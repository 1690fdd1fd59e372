// Package vfs resolves logical instance addresses to physical directories
// under a content root and tells instance directories ("files") apart from
// namespacing directories ("folders").
//
// # Directory strategies
//
// A deployment fixes one Strategy for good; the three are not compatible
// with each other on disk:
//
//   - StrategyMarker (default): an empty sidecar "<name>.file" or
//     "<name>.folder" is written next to every instance or folder directory,
//     and listing walks those markers. Works well with version control, which
//     cannot track empty directories.
//   - StrategySuffix: instance directories end in ".f", folders in ".d".
//   - StrategyAuto: a directory holding sub-directories is a folder,
//     anything else an instance. An empty folder then lists as an instance.
//
// # Usage
//
//	fsys, err := vfs.New(afero.NewOsFs(), "./GameData", vfs.StrategyMarker)
//	dir, err := fsys.InstanceDir("Sample", "Hero", nil, vfs.Write)   // creates it
//	names, err := fsys.Instances("Sample", nil)                       // ["Hero"]
package vfs
