package sample

import (
	"encoding/json"
	"image"

	"github.com/handiism/gamedata/internal/loader"
	"github.com/handiism/gamedata/internal/part"
	"github.com/handiism/gamedata/internal/vfs"
)

// SampleFolder is the root folder of the Sample type.
const SampleFolder = "Sample"

// Data is the blob of a Sample.
type Data struct {
	Description string `json:"Description"`
	Number      int    `json:"Number"`
}

// Save renders d as indented JSON.
func (d *Data) Save() (string, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Load parses text into d.
func (d *Data) Load(text string) error {
	var v Data
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return err
	}
	*d = v
	return nil
}

// Clear resets d to the values of a blank Sample.
func (d *Data) Clear() {
	*d = Data{Description: "Empty desc", Number: -1}
}

// Sample is the live state of one Sample instance.
type Sample struct {
	Data   *Data
	Sprite *part.Slot[*image.NRGBA]

	*loader.Loader
}

// NewSample creates blank live values bound to a loader.
func NewSample(fs *vfs.FileSystem, opts ...loader.Option) (*Sample, error) {
	s := &Sample{
		Data:   &Data{},
		Sprite: part.NewSlot[*image.NRGBA](),
	}
	s.Data.Clear()

	ld, err := loader.New(fs, loader.Descriptor{
		Folder: SampleFolder,
		Icon:   "Sprite",
		Parts: []*part.Part{
			part.NewBlob("Data", s.Data),
			part.NewImage("Sprite", s.Sprite),
		},
	}, opts...)
	if err != nil {
		return nil, err
	}
	s.Loader = ld
	return s, nil
}
