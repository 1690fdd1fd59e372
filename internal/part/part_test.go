package part

import (
	"encoding/json"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/gamedata/internal/model"
)

const dir = "/GameData/Sample/Hero"

type stats struct {
	Description string
	Number      int
}

func (s *stats) Save() (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *stats) Load(data string) error { return json.Unmarshal([]byte(data), s) }

func (s *stats) Clear() { *s = stats{Description: "Empty desc", Number: -1} }

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestBlob_RoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	value := &stats{Description: "x", Number: 3}
	p := NewBlob("Data", value)

	require.NoError(t, p.Save(fsys, dir))
	raw, err := afero.ReadFile(fsys, filepath.Join(dir, "Data.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Description":"x","Number":3}`, string(raw))

	*value = stats{}
	require.NoError(t, p.Load(fsys, dir))
	assert.Equal(t, stats{Description: "x", Number: 3}, *value)
}

func TestBlob_MissingFileClears(t *testing.T) {
	value := &stats{Description: "x", Number: 3}
	p := NewBlob("Data", value)

	require.NoError(t, p.Load(afero.NewMemMapFs(), dir))
	assert.Equal(t, stats{Description: "Empty desc", Number: -1}, *value)
}

func TestBlob_CorruptFileIsAnError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, "Data.json"), []byte("{nope"), 0644))

	err := NewBlob("Data", &stats{}).Load(fsys, dir)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestImage_RoundTripAndClear(t *testing.T) {
	fsys := afero.NewMemMapFs()
	slot := NewSlot[*image.NRGBA]()
	p := NewImage("Sprite", slot)

	slot.Set(solid(16, 16, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	require.NoError(t, p.Save(fsys, dir))

	slot.Set(nil)
	require.NoError(t, p.Load(fsys, dir))
	require.NotNil(t, slot.Get())
	assert.Equal(t, image.Rect(0, 0, 16, 16), slot.Get().Bounds())

	// Saving a cleared image removes the stale file.
	p.Clear()
	require.NoError(t, p.Save(fsys, dir))
	exists, _ := afero.Exists(fsys, filepath.Join(dir, "Sprite.png"))
	assert.False(t, exists)
	require.NoError(t, p.Load(fsys, dir))
	assert.Nil(t, slot.Get())
}

func TestImage_CustomExtension(t *testing.T) {
	fsys := afero.NewMemMapFs()
	slot := NewSlot[*image.NRGBA]()
	slot.Set(solid(2, 2, color.NRGBA{A: 255}))
	p := NewImage("Portrait", slot, WithExtension(".bmp"))

	require.NoError(t, p.Save(fsys, dir))
	exists, _ := afero.Exists(fsys, filepath.Join(dir, "Portrait.bmp"))
	assert.True(t, exists)
	assert.Equal(t, ".bmp", p.Extension())
}

func animation(name string, frames int, speed float64, loops bool) model.Animation {
	a := model.Animation{Name: name, Speed: speed, Loops: loops}
	for i := 0; i < frames; i++ {
		a.Frames = append(a.Frames, solid(4, 4, color.NRGBA{R: uint8(40 * i), A: 255}))
	}
	return a
}

func TestSpriteSet_UnlockedRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	slot := NewSlot[model.SpriteFrames]()
	p := NewSpriteSet("Anim", slot)

	slot.Set(model.SpriteFrames{Animations: []model.Animation{
		animation("walk", 3, 8, true),
		animation("die", 2, 4, false),
		animation("empty", 0, 2, true),
	}})
	require.NoError(t, p.Save(fsys, dir))

	strip, err := afero.ReadFile(fsys, filepath.Join(dir, "Anim", "walk.png"))
	require.NoError(t, err)
	assert.NotEmpty(t, strip)

	p.Clear()
	assert.Empty(t, slot.Get().Animations)

	require.NoError(t, p.Load(fsys, dir))
	got := slot.Get()
	require.Equal(t, []string{"walk", "die", "empty"}, got.Names())
	assert.Len(t, got.Animations[0].Frames, 3)
	assert.Equal(t, image.Pt(4, 4), got.Animations[0].FrameSize())
	assert.Equal(t, uint8(80), got.Animations[0].Frames[2].Pix[0])
	assert.Equal(t, 4.0, got.Animations[1].Speed)
	assert.False(t, got.Animations[1].Loops)
	assert.Empty(t, got.Animations[2].Frames)
	assert.Equal(t, 2.0, got.Animations[2].Speed)
}

func TestSpriteSet_CollidingStripNamesKeepPreviousSave(t *testing.T) {
	fsys := afero.NewMemMapFs()
	slot := NewSlot[model.SpriteFrames]()
	p := NewSpriteSet("Anim", slot)

	slot.Set(model.SpriteFrames{Animations: []model.Animation{animation("walk", 2, 8, true)}})
	require.NoError(t, p.Save(fsys, dir))

	slot.Set(model.SpriteFrames{Animations: []model.Animation{
		animation("walk:", 2, 8, true),
		animation("walk", 3, 8, true),
	}})
	err := p.Save(fsys, dir)
	assert.ErrorIs(t, err, model.ErrWriteFailure)

	slot.Set(model.SpriteFrames{Animations: []model.Animation{animation("???", 1, 1, true)}})
	assert.ErrorIs(t, p.Save(fsys, dir), model.ErrWriteFailure)

	require.NoError(t, p.Load(fsys, dir))
	got := slot.Get()
	require.Equal(t, []string{"walk"}, got.Names())
	assert.Len(t, got.Animations[0].Frames, 2)
}

func readMeta(t *testing.T, fsys afero.Fs) []model.AnimationData {
	t.Helper()
	raw, err := afero.ReadFile(fsys, filepath.Join(dir, "Anim", AnimationDataFile))
	require.NoError(t, err)
	var data []model.AnimationData
	require.NoError(t, json.Unmarshal(raw, &data))
	return data
}

func TestSpriteSet_LockedSpeedSentinel(t *testing.T) {
	fsys := afero.NewMemMapFs()
	slot := NewSlot[model.SpriteFrames]()
	p := NewLockedSpriteSet("Anim", slot, DeclareAll(5, true, "idle", "walk"))

	p.Clear()
	frames := slot.Get()
	frames.Animations[0].Frames = animation("idle", 2, 0, true).Frames
	frames.Animations[1].Speed = 12
	slot.Set(frames)
	require.NoError(t, p.Save(fsys, dir))

	meta := readMeta(t, fsys)
	require.Len(t, meta, 2)
	assert.Equal(t, model.AnimationData{Name: "idle", FrameCount: 2, Speed: model.SpeedUnchanged, Loops: true}, meta[0])
	assert.Equal(t, 12.0, meta[1].Speed)

	// Changing the base speed of the type applies to every instance that
	// kept the default.
	faster := NewLockedSpriteSet("Anim", slot, DeclareAll(9, true, "idle", "walk"))
	require.NoError(t, faster.Load(fsys, dir))
	assert.Equal(t, 9.0, slot.Get().Animations[0].Speed)
	assert.Equal(t, 12.0, slot.Get().Animations[1].Speed)
	assert.Len(t, slot.Get().Animations[0].Frames, 2)
}

func TestSpriteSet_LockedOrderComesFromDeclaration(t *testing.T) {
	fsys := afero.NewMemMapFs()
	slot := NewSlot[model.SpriteFrames]()

	unlocked := NewSpriteSet("Anim", slot)
	slot.Set(model.SpriteFrames{Animations: []model.Animation{
		animation("walk", 1, 3, true),
		animation("stray", 1, 3, true),
		animation("idle", 2, 3, true),
	}})
	require.NoError(t, unlocked.Save(fsys, dir))

	locked := NewLockedSpriteSet("Anim", slot, DeclareNames("idle", "walk", "attack"))
	require.NoError(t, locked.Load(fsys, dir))

	got := slot.Get()
	assert.Equal(t, []string{"idle", "walk", "attack"}, got.Names())
	assert.Len(t, got.Animations[0].Frames, 2)
	assert.Empty(t, got.Animations[2].Frames)
	assert.Equal(t, 1.0, got.Animations[2].Speed)
}

func TestSpriteSet_LockedRecordNames(t *testing.T) {
	slot := NewSlot[model.SpriteFrames]()
	p := NewLockedSpriteSet("Anim", slot, DeclareNames("idle", "walk"))
	p.Clear()

	wrong := model.SpriteFrames{Animations: []model.Animation{animation("idle", 1, 1, true), animation("run", 1, 1, true)}}
	assert.ErrorIs(t, p.LoadFromRecord(wrong), model.ErrTypeMismatch)

	short := model.SpriteFrames{Animations: []model.Animation{animation("idle", 1, 1, true)}}
	assert.ErrorIs(t, p.LoadFromRecord(short), model.ErrTypeMismatch)
	assert.Empty(t, slot.Get().Animations[0].Frames, "rejected record must not touch the live value")

	reordered := model.SpriteFrames{Animations: []model.Animation{animation("walk", 2, 1, true), animation("idle", 1, 1, true)}}
	require.NoError(t, p.LoadFromRecord(reordered))
	assert.Equal(t, []string{"idle", "walk"}, slot.Get().Names())
	assert.Len(t, slot.Get().Animations[1].Frames, 2)
}

func TestAudio_NoPathNoStreamWritesNothing(t *testing.T) {
	slot := NewSlot[model.AudioRef]()
	p := NewAudio("Voice", slot)

	// Any write against a read-only filesystem fails.
	ro := afero.NewReadOnlyFs(afero.NewMemMapFs())
	assert.NoError(t, p.Save(ro, dir))
}

func TestAudio_StreamWithoutPath(t *testing.T) {
	slot := NewSlot[model.AudioRef]()
	slot.Set(model.AudioRef{Stream: &model.AudioStream{Format: "ogg", Data: []byte("OggS")}})
	p := NewAudio("Voice", slot)

	assert.ErrorIs(t, p.Save(afero.NewMemMapFs(), dir), model.ErrWriteFailure)
}

func TestAudio_CopyAndReload(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/sounds/jump.ogg", []byte("OggS-jump"), 0644))

	slot := NewSlot[model.AudioRef]()
	p := NewAudio("Voice", slot)
	slot.Set(model.AudioRef{Path: "/sounds/jump.ogg"})
	require.NoError(t, p.Save(fsys, dir))

	target := filepath.Join(dir, "Voice.ogg")
	data, err := afero.ReadFile(fsys, target)
	require.NoError(t, err)
	assert.Equal(t, "OggS-jump", string(data))

	p.Clear()
	require.NoError(t, p.Load(fsys, dir))
	ref := slot.Get()
	assert.Equal(t, target, ref.Path)
	require.NotNil(t, ref.Stream)
	assert.Equal(t, "ogg", ref.Stream.Format)

	// The loaded path is the target itself: saving again copies nothing.
	ro := afero.NewReadOnlyFs(fsys)
	assert.NoError(t, p.Save(ro, dir))
}

func TestAudio_MissingFileClears(t *testing.T) {
	slot := NewSlot[model.AudioRef]()
	slot.Set(model.AudioRef{Path: "/sounds/jump.ogg"})
	p := NewAudio("Voice", slot)

	require.NoError(t, p.Load(afero.NewMemMapFs(), dir))
	assert.Equal(t, model.AudioRef{}, slot.Get())
}

func TestAudio_RecordKeepsSource(t *testing.T) {
	slot := NewSlot[model.AudioRef]()
	p := NewAudio("Voice", slot)
	slot.Set(model.AudioRef{Path: "/x/Voice.ogg", Stream: &model.AudioStream{Format: "ogg", Data: []byte("a")}})

	v, err := p.SaveToRecord()
	require.NoError(t, err)
	p.Clear()
	require.NoError(t, p.LoadFromRecord(v))
	assert.Equal(t, "/x/Voice.ogg", slot.Get().Path)

	require.NoError(t, p.LoadFromRecord((*model.AudioStream)(nil)))
	assert.Equal(t, model.AudioRef{}, slot.Get())
}

func TestLoadFromRecord_TypeMismatch(t *testing.T) {
	parts := []*Part{
		NewBlob("Data", &stats{}),
		NewImage("Sprite", NewSlot[*image.NRGBA]()),
		NewSpriteSet("Anim", NewSlot[model.SpriteFrames]()),
		NewAudio("Voice", NewSlot[model.AudioRef]()),
	}
	for _, p := range parts {
		t.Run(p.Kind().String(), func(t *testing.T) {
			assert.ErrorIs(t, p.LoadFromRecord(42), model.ErrTypeMismatch)
			assert.ErrorIs(t, p.LoadFromRecord(nil), model.ErrTypeMismatch)
		})
	}
}

func TestRecord_ImagesAreCopied(t *testing.T) {
	slot := NewSlot[*image.NRGBA]()
	p := NewImage("Sprite", slot)
	slot.Set(solid(2, 2, color.NRGBA{A: 255}))

	v, err := p.SaveToRecord()
	require.NoError(t, err)
	slot.Get().Pix[0] = 99

	assert.Equal(t, uint8(0), v.(*image.NRGBA).Pix[0])
}

func TestReadImage(t *testing.T) {
	fsys := afero.NewMemMapFs()

	sprites := NewSlot[model.SpriteFrames]()
	anim := NewSpriteSet("Anim", sprites)
	sprites.Set(model.SpriteFrames{Animations: []model.Animation{animation("empty", 0, 1, true), animation("walk", 2, 1, true)}})
	require.NoError(t, anim.Save(fsys, dir))
	anim.Clear()

	first, err := anim.ReadImage(fsys, dir)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, image.Rect(0, 0, 4, 4), first.Bounds())
	assert.Empty(t, sprites.Get().Animations, "ReadImage must not touch the live value")

	img, err := NewImage("Sprite", NewSlot[*image.NRGBA]()).ReadImage(fsys, dir)
	assert.NoError(t, err)
	assert.Nil(t, img)

	_, err = NewBlob("Data", &stats{}).ReadImage(fsys, dir)
	assert.ErrorIs(t, err, model.ErrTypeMismatch)
}

func TestSlot_NotifiesObservers(t *testing.T) {
	slot := NewSlot[int]()
	var seen []int
	slot.OnChange(func(v int) { seen = append(seen, v) })

	slot.Set(1)
	slot.Set(2)

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, slot.Get())
}
