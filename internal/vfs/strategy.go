package vfs

import (
	"fmt"
	"strings"

	"github.com/handiism/gamedata/internal/model"
)

// Strategy selects how instance and folder directories are marked on disk.
type Strategy int

const (
	// StrategyMarker writes "<name>.file" / "<name>.folder" sidecar files.
	StrategyMarker Strategy = iota

	// StrategySuffix names directories "<name>.f" / "<name>.d".
	StrategySuffix

	// StrategyAuto infers folders from the presence of sub-directories.
	StrategyAuto
)

// Marker and suffix spellings.
const (
	FileMarkerExt   = ".file"
	FolderMarkerExt = ".folder"
	FileSuffix      = ".f"
	FolderSuffix    = ".d"
)

// ParseStrategy maps "marker", "suffix" or "auto" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "marker":
		return StrategyMarker, nil
	case "suffix":
		return StrategySuffix, nil
	case "auto":
		return StrategyAuto, nil
	default:
		return 0, fmt.Errorf("%w: unknown directory strategy %q", model.ErrImpossible, s)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyMarker:
		return "marker"
	case StrategySuffix:
		return "suffix"
	case StrategyAuto:
		return "auto"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func (s Strategy) valid() bool {
	return s == StrategyMarker || s == StrategySuffix || s == StrategyAuto
}

// Mode tells InstanceDir whether a missing instance is an error or should be
// created.
type Mode int

const (
	Read Mode = iota
	Write
)
