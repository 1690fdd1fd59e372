package model

import (
	"image"
	"slices"
)

// SpeedUnchanged is persisted in place of an animation's speed when the
// animation belongs to a locked set and its speed equals the declared base
// speed. Any negative speed read back for a locked animation resolves to the
// base speed.
const SpeedUnchanged = -1.0

// Animation is one named sequence of equally-sized frames.
type Animation struct {
	Name   string
	Frames []*image.NRGBA
	Speed  float64
	Loops  bool
}

// FrameSize returns the size of the first frame, or the zero point when the
// animation has no frames.
func (a Animation) FrameSize() image.Point {
	if len(a.Frames) == 0 || a.Frames[0] == nil {
		return image.Point{}
	}
	return a.Frames[0].Bounds().Size()
}

// SpriteFrames is the value of a sprite animation set: its animations in
// order.
type SpriteFrames struct {
	Animations []Animation
}

// Names returns the animation names in order.
func (s SpriteFrames) Names() []string {
	names := make([]string, len(s.Animations))
	for i, a := range s.Animations {
		names[i] = a.Name
	}
	return names
}

// Find returns the animation called name.
func (s SpriteFrames) Find(name string) (Animation, bool) {
	for _, a := range s.Animations {
		if a.Name == name {
			return a, true
		}
	}
	return Animation{}, false
}

// Clone returns a deep copy; frame pixels are copied too.
func (s SpriteFrames) Clone() SpriteFrames {
	if s.Animations == nil {
		return SpriteFrames{}
	}
	out := SpriteFrames{Animations: make([]Animation, len(s.Animations))}
	for i, a := range s.Animations {
		c := a
		c.Frames = nil
		for _, f := range a.Frames {
			c.Frames = append(c.Frames, CloneNRGBA(f))
		}
		out.Animations[i] = c
	}
	return out
}

// AnimationDecl declares one animation of a locked set together with its
// base speed and loop flag.
type AnimationDecl struct {
	Name  string
	Speed float64
	Loops bool
}

// AnimationData is one entry of the animation metadata file.
type AnimationData struct {
	Name       string  `json:"name"`
	FrameCount int     `json:"frameCount"`
	Speed      float64 `json:"speed"`
	Loops      bool    `json:"loops"`
}

// CloneNRGBA copies img. A nil image stays nil.
func CloneNRGBA(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	return &image.NRGBA{
		Pix:    slices.Clone(img.Pix),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
}
