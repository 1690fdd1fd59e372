package sample

import (
	"encoding/json"
	"image"

	"github.com/handiism/gamedata/internal/loader"
	"github.com/handiism/gamedata/internal/model"
	"github.com/handiism/gamedata/internal/part"
	"github.com/handiism/gamedata/internal/vfs"
)

// CharacterFolder is the root folder of the Character type.
const CharacterFolder = "Character"

// Animations every character provides. Attack plays once, faster.
var CharacterAnimations = append(
	part.DeclareNames("idle", "walk"),
	model.AnimationDecl{Name: "attack", Speed: 12, Loops: false},
)

// Stats is the blob of a Character.
type Stats struct {
	DisplayName string   `json:"displayName"`
	Health      int      `json:"health"`
	MoveSpeed   float64  `json:"moveSpeed"`
	Tags        []string `json:"tags,omitempty"`
}

func (s *Stats) Save() (string, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Stats) Load(text string) error {
	var v Stats
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return err
	}
	*s = v
	return nil
}

func (s *Stats) Clear() {
	*s = Stats{Health: 100, MoveSpeed: 1}
}

// Character is the live state of one Character instance.
type Character struct {
	Stats      *Stats
	Portrait   *part.Slot[*image.NRGBA]
	Animations *part.Slot[model.SpriteFrames]
	Voice      *part.Slot[model.AudioRef]

	*loader.Loader
}

// NewCharacter creates blank live values bound to a loader. The Auto
// directory strategy cannot store the animation set and is rejected.
func NewCharacter(fs *vfs.FileSystem, opts ...loader.Option) (*Character, error) {
	c := &Character{
		Stats:      &Stats{},
		Portrait:   part.NewSlot[*image.NRGBA](),
		Animations: part.NewSlot[model.SpriteFrames](),
		Voice:      part.NewSlot[model.AudioRef](),
	}
	c.Stats.Clear()

	ld, err := loader.New(fs, loader.Descriptor{
		Folder: CharacterFolder,
		Icon:   "Portrait",
		Parts: []*part.Part{
			part.NewBlob("Stats", c.Stats),
			part.NewImage("Portrait", c.Portrait),
			part.NewLockedSpriteSet("Animations", c.Animations, CharacterAnimations),
			part.NewAudio("Voice", c.Voice),
		},
	}, opts...)
	if err != nil {
		return nil, err
	}
	c.Loader = ld
	c.New()
	return c, nil
}
