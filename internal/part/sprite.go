package part

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	ioutils "github.com/handiism/gamedata/internal/io"
	"github.com/handiism/gamedata/internal/model"
)

// speedTolerance is how close a locked animation's speed must be to its base
// speed to be persisted as model.SpeedUnchanged.
const speedTolerance = 0.01

type spriteSet struct {
	value  Accessor[model.SpriteFrames]
	locked bool
	base   []model.AnimationDecl
}

// NewSpriteSet creates a sprite animation set whose animations are free to
// change. Animations are saved in their current order.
func NewSpriteSet(name string, value Accessor[model.SpriteFrames], opts ...Option) *Part {
	return build(&Part{
		name:   name,
		kind:   KindSpriteSet,
		ext:    DefaultImageExt,
		sprite: &spriteSet{value: value},
	}, opts)
}

// NewLockedSpriteSet creates a sprite animation set restricted to the
// declared animations, in declaration order. Editors may change frames,
// speed and loop flag but not the set of names.
func NewLockedSpriteSet(name string, value Accessor[model.SpriteFrames], decls []model.AnimationDecl, opts ...Option) *Part {
	return build(&Part{
		name:   name,
		kind:   KindSpriteSet,
		ext:    DefaultImageExt,
		sprite: &spriteSet{value: value, locked: true, base: slices.Clone(decls)},
	}, opts)
}

// DeclareNames declares locked animations by name with speed 1 and looping.
func DeclareNames(names ...string) []model.AnimationDecl {
	return DeclareAll(1, true, names...)
}

// DeclareAll declares locked animations sharing one base speed and loop flag.
func DeclareAll(speed float64, loops bool, names ...string) []model.AnimationDecl {
	decls := make([]model.AnimationDecl, len(names))
	for i, n := range names {
		decls[i] = model.AnimationDecl{Name: n, Speed: speed, Loops: loops}
	}
	return decls
}

// Locked reports whether the part is a locked sprite set.
func (p *Part) Locked() bool {
	return p.kind == KindSpriteSet && p.sprite.locked
}

// Declared returns the locked animation declarations, or nil.
func (p *Part) Declared() []model.AnimationDecl {
	if !p.Locked() {
		return nil
	}
	return slices.Clone(p.sprite.base)
}

func (s *spriteSet) cleared() model.SpriteFrames {
	if !s.locked {
		return model.SpriteFrames{}
	}
	frames := model.SpriteFrames{Animations: make([]model.Animation, len(s.base))}
	for i, d := range s.base {
		frames.Animations[i] = model.Animation{Name: d.Name, Speed: d.Speed, Loops: d.Loops}
	}
	return frames
}

func (s *spriteSet) clear() {
	s.value.Set(s.cleared())
}

func (s *spriteSet) load(fsys afero.Fs, dir, ext string) error {
	frames, err := s.read(fsys, dir, ext)
	if err != nil {
		return err
	}
	s.value.Set(frames)
	return nil
}

// read decodes the metadata file and strips under dir. For a locked set
// the animation identity and order come from the declaration, not the file.
func (s *spriteSet) read(fsys afero.Fs, dir, ext string) (model.SpriteFrames, error) {
	metaPath := filepath.Join(dir, AnimationDataFile)
	raw, ok, err := ioutils.ReadFileIfExists(fsys, metaPath)
	if err != nil {
		return model.SpriteFrames{}, err
	}
	if !ok {
		return s.cleared(), nil
	}

	var data []model.AnimationData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.SpriteFrames{}, fmt.Errorf("parse %s: %w", metaPath, err)
	}

	readAnim := func(d model.AnimationData) (model.Animation, error) {
		anim := model.Animation{Name: d.Name, Speed: d.Speed, Loops: d.Loops}
		if d.FrameCount <= 0 {
			return anim, nil
		}
		strip, err := ioutils.LoadImage(fsys, stripPath(dir, d.Name, ext))
		if err != nil {
			return anim, err
		}
		anim.Frames = ioutils.SplitFrames(strip, d.FrameCount)
		return anim, nil
	}

	var out model.SpriteFrames
	if !s.locked {
		for _, d := range data {
			anim, err := readAnim(d)
			if err != nil {
				return model.SpriteFrames{}, err
			}
			out.Animations = append(out.Animations, anim)
		}
		return out, nil
	}

	for _, decl := range s.base {
		idx := slices.IndexFunc(data, func(d model.AnimationData) bool { return d.Name == decl.Name })
		if idx < 0 {
			out.Animations = append(out.Animations, model.Animation{Name: decl.Name, Speed: decl.Speed, Loops: decl.Loops})
			continue
		}
		anim, err := readAnim(data[idx])
		if err != nil {
			return model.SpriteFrames{}, err
		}
		if anim.Speed < 0 {
			anim.Speed = decl.Speed
		}
		out.Animations = append(out.Animations, anim)
	}
	return out, nil
}

// save rewrites dir from scratch: one strip per non-empty animation and one
// metadata entry per animation.
func (s *spriteSet) save(fsys afero.Fs, dir, ext string) error {
	value := s.value.Get()
	anims := value.Animations
	if s.locked {
		anims = make([]model.Animation, len(s.base))
		for i, decl := range s.base {
			a, ok := value.Find(decl.Name)
			if !ok {
				a = model.Animation{Name: decl.Name, Speed: decl.Speed, Loops: decl.Loops}
			}
			anims[i] = a
		}
	}

	// Strip names are validated before dir is cleared.
	files := make(map[string]string, len(anims))
	for _, a := range anims {
		file := ioutils.SanitizeFileName(a.Name)
		if file == "" {
			return model.NewWriteError(dir, fmt.Errorf("invalid animation name %q", a.Name))
		}
		if other, ok := files[file]; ok {
			return model.NewWriteError(dir, fmt.Errorf("animations %q and %q share the strip file %q", other, a.Name, file+ext))
		}
		files[file] = a.Name
	}

	if err := fsys.RemoveAll(dir); err != nil {
		return model.NewWriteError(dir, err)
	}
	if err := ioutils.EnsureDir(fsys, dir); err != nil {
		return model.NewWriteError(dir, err)
	}

	data := make([]model.AnimationData, 0, len(anims))
	for i, a := range anims {
		speed := a.Speed
		if s.locked && math.Abs(s.base[i].Speed-speed) < speedTolerance {
			speed = model.SpeedUnchanged
		}
		data = append(data, model.AnimationData{Name: a.Name, FrameCount: len(a.Frames), Speed: speed, Loops: a.Loops})

		if strip := ioutils.CombineFrames(a.Frames); strip != nil {
			path := stripPath(dir, a.Name, ext)
			if err := ioutils.SaveImage(fsys, path, strip); err != nil {
				return model.NewWriteError(path, err)
			}
		}
	}

	meta, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return model.NewWriteError(dir, err)
	}
	metaPath := filepath.Join(dir, AnimationDataFile)
	if err := ioutils.WriteFile(fsys, metaPath, meta); err != nil {
		return model.NewWriteError(metaPath, err)
	}
	return nil
}

// restore accepts a record value. A locked set requires exactly the declared
// names in any order and reorders them to declaration order.
func (s *spriteSet) restore(part string, frames model.SpriteFrames) error {
	if !s.locked {
		s.value.Set(frames.Clone())
		return nil
	}

	got := frames.Names()
	if len(got) != len(s.base) {
		return model.Mismatchf(part, "declared animations %v, record has %v", declNames(s.base), got)
	}
	ordered := model.SpriteFrames{Animations: make([]model.Animation, len(s.base))}
	for i, decl := range s.base {
		a, ok := frames.Find(decl.Name)
		if !ok {
			return model.Mismatchf(part, "declared animations %v, record has %v", declNames(s.base), got)
		}
		ordered.Animations[i] = a
	}
	s.value.Set(ordered.Clone())
	return nil
}

func declNames(decls []model.AnimationDecl) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	return names
}

func stripPath(dir, animation, ext string) string {
	return filepath.Join(dir, ioutils.SanitizeFileName(animation)+ext)
}
