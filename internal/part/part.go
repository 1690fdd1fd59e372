package part

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/handiism/gamedata/internal/audio"
	ioutils "github.com/handiism/gamedata/internal/io"
	"github.com/handiism/gamedata/internal/model"
)

// Kind is the storage kind of a part.
type Kind int

const (
	KindBlob Kind = iota
	KindImage
	KindSpriteSet
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindImage:
		return "image"
	case KindSpriteSet:
		return "sprites"
	case KindAudio:
		return "audio"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Default file extensions per kind.
const (
	DefaultBlobExt    = ".json"
	DefaultImageExt   = ".png"
	DefaultAudioExt   = ".ogg"
	AnimationDataFile = "AnimationData.json"
)

// Part is one named field of an entity type bound to its live value.
type Part struct {
	name string
	kind Kind
	ext  string

	blob   Serializable
	image  Accessor[*image.NRGBA]
	sprite *spriteSet
	audio  Accessor[model.AudioRef]
}

// Option configures a Part.
type Option func(*Part)

// WithExtension overrides the file extension of the part (for sprite sets,
// of each frame strip).
func WithExtension(ext string) Option {
	return func(p *Part) {
		if ext != "" {
			p.ext = ext
		}
	}
}

// NewBlob creates a part storing value as "<name>.json".
func NewBlob(name string, value Serializable, opts ...Option) *Part {
	return build(&Part{name: name, kind: KindBlob, ext: DefaultBlobExt, blob: value}, opts)
}

// NewImage creates a part storing a single image as "<name>.png".
func NewImage(name string, value Accessor[*image.NRGBA], opts ...Option) *Part {
	return build(&Part{name: name, kind: KindImage, ext: DefaultImageExt, image: value}, opts)
}

// NewAudio creates a part referencing an audio file stored as "<name>.ogg".
func NewAudio(name string, value Accessor[model.AudioRef], opts ...Option) *Part {
	return build(&Part{name: name, kind: KindAudio, ext: DefaultAudioExt, audio: value}, opts)
}

func build(p *Part, opts []Option) *Part {
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the part name, which is also its file name stem.
func (p *Part) Name() string { return p.name }

// Kind returns the storage kind.
func (p *Part) Kind() Kind { return p.kind }

// Extension returns the file extension in use.
func (p *Part) Extension() string { return p.ext }

// Path returns the file (or, for sprite sets, the directory) of this part
// inside an instance directory.
func (p *Part) Path(dir string) string {
	if p.kind == KindSpriteSet {
		return filepath.Join(dir, p.name)
	}
	return filepath.Join(dir, p.name+p.ext)
}

// Load reads the part from dir into its live value. Missing files clear the
// value; only unreadable or corrupt files are errors.
func (p *Part) Load(fsys afero.Fs, dir string) error {
	switch p.kind {
	case KindBlob:
		data, ok, err := ioutils.ReadFileIfExists(fsys, p.Path(dir))
		if err != nil {
			return err
		}
		if !ok {
			p.blob.Clear()
			return nil
		}
		if err := p.blob.Load(string(data)); err != nil {
			return fmt.Errorf("part %q: %w", p.name, err)
		}
		return nil
	case KindImage:
		img, err := ioutils.LoadImage(fsys, p.Path(dir))
		if err != nil {
			return fmt.Errorf("part %q: %w", p.name, err)
		}
		p.image.Set(img)
		return nil
	case KindSpriteSet:
		return p.sprite.load(fsys, p.Path(dir), p.ext)
	case KindAudio:
		path := p.Path(dir)
		exists, err := ioutils.Exists(fsys, path)
		if err != nil {
			return err
		}
		if !exists {
			p.audio.Set(model.AudioRef{})
			return nil
		}
		stream, err := audio.Probe(fsys, path)
		if err != nil {
			return fmt.Errorf("part %q: %w", p.name, err)
		}
		p.audio.Set(model.AudioRef{Path: path, Stream: stream})
		return nil
	default:
		return p.impossible()
	}
}

// Save writes the live value into dir. Every failure is a
// model.ErrWriteFailure.
func (p *Part) Save(fsys afero.Fs, dir string) error {
	switch p.kind {
	case KindBlob:
		path := p.Path(dir)
		text, err := p.blob.Save()
		if err != nil {
			return model.NewWriteError(path, err)
		}
		if err := ioutils.WriteFile(fsys, path, []byte(text)); err != nil {
			return model.NewWriteError(path, err)
		}
		return nil
	case KindImage:
		path := p.Path(dir)
		img := p.image.Get()
		if img == nil {
			if err := ioutils.RemoveIfExists(fsys, path); err != nil {
				return model.NewWriteError(path, err)
			}
			return nil
		}
		if err := ioutils.SaveImage(fsys, path, img); err != nil {
			return model.NewWriteError(path, err)
		}
		return nil
	case KindSpriteSet:
		return p.sprite.save(fsys, p.Path(dir), p.ext)
	case KindAudio:
		return p.saveAudio(fsys, p.Path(dir))
	default:
		return p.impossible()
	}
}

func (p *Part) saveAudio(fsys afero.Fs, target string) error {
	ref := p.audio.Get()
	if ref.Path == "" {
		if ref.Stream != nil {
			return model.NewWriteError(target, errors.New("audio stream has no source path"))
		}
		return nil
	}
	if filepath.Clean(ref.Path) == filepath.Clean(target) {
		return nil
	}
	if err := ioutils.EnsureDir(fsys, filepath.Dir(target)); err != nil {
		return model.NewWriteError(target, err)
	}
	if err := ioutils.CopyFile(fsys, ref.Path, target); err != nil {
		return model.NewWriteError(target, err)
	}
	return nil
}

// Clear resets the live value to its empty state.
func (p *Part) Clear() {
	switch p.kind {
	case KindBlob:
		p.blob.Clear()
	case KindImage:
		p.image.Set(nil)
	case KindSpriteSet:
		p.sprite.clear()
	case KindAudio:
		p.audio.Set(model.AudioRef{})
	}
}

// SaveToRecord snapshots the live value as a record value without touching
// the disk. Images are copied so later edits do not leak into the snapshot.
func (p *Part) SaveToRecord() (any, error) {
	switch p.kind {
	case KindBlob:
		text, err := p.blob.Save()
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", p.name, err)
		}
		return text, nil
	case KindImage:
		return model.CloneNRGBA(p.image.Get()), nil
	case KindSpriteSet:
		return p.sprite.value.Get().Clone(), nil
	case KindAudio:
		ref := p.audio.Get()
		stream := ref.Stream.Clone()
		if stream != nil && stream.Source == "" {
			stream.Source = ref.Path
		}
		return stream, nil
	default:
		return nil, p.impossible()
	}
}

// LoadFromRecord replaces the live value with a record value. A value of the
// wrong type, or a sprite set disagreeing with the locked declaration, is
// rejected with model.ErrTypeMismatch and leaves the live value untouched.
func (p *Part) LoadFromRecord(v any) error {
	switch p.kind {
	case KindBlob:
		text, ok := v.(string)
		if !ok {
			return p.mismatch(v, "string")
		}
		if err := p.blob.Load(text); err != nil {
			return fmt.Errorf("part %q: %w", p.name, err)
		}
		return nil
	case KindImage:
		img, ok := v.(*image.NRGBA)
		if !ok {
			return p.mismatch(v, "*image.NRGBA")
		}
		p.image.Set(model.CloneNRGBA(img))
		return nil
	case KindSpriteSet:
		frames, ok := v.(model.SpriteFrames)
		if !ok {
			return p.mismatch(v, "model.SpriteFrames")
		}
		return p.sprite.restore(p.name, frames)
	case KindAudio:
		stream, ok := v.(*model.AudioStream)
		if !ok {
			return p.mismatch(v, "*model.AudioStream")
		}
		if stream == nil {
			p.audio.Set(model.AudioRef{})
			return nil
		}
		p.audio.Set(model.AudioRef{Path: stream.Source, Stream: stream.Clone()})
		return nil
	default:
		return p.impossible()
	}
}

// ReadImage reads the image this part would show as an icon straight from
// dir, without touching the live value: the image itself, or the first
// frame of the first non-empty animation of a sprite set. A missing file
// yields nil.
func (p *Part) ReadImage(fsys afero.Fs, dir string) (*image.NRGBA, error) {
	switch p.kind {
	case KindImage:
		return ioutils.LoadImage(fsys, p.Path(dir))
	case KindSpriteSet:
		frames, err := p.sprite.read(fsys, p.Path(dir), p.ext)
		if err != nil {
			return nil, err
		}
		return firstFrame(frames), nil
	default:
		return nil, model.Mismatchf(p.name, "%s part has no image", p.kind)
	}
}

// RecordImage extracts the icon image from a record value of this part.
func (p *Part) RecordImage(v any) (*image.NRGBA, error) {
	switch p.kind {
	case KindImage:
		img, ok := v.(*image.NRGBA)
		if !ok {
			return nil, p.mismatch(v, "*image.NRGBA")
		}
		return model.CloneNRGBA(img), nil
	case KindSpriteSet:
		frames, ok := v.(model.SpriteFrames)
		if !ok {
			return nil, p.mismatch(v, "model.SpriteFrames")
		}
		return model.CloneNRGBA(firstFrame(frames)), nil
	default:
		return nil, model.Mismatchf(p.name, "%s part has no image", p.kind)
	}
}

func firstFrame(frames model.SpriteFrames) *image.NRGBA {
	for _, a := range frames.Animations {
		if len(a.Frames) > 0 {
			return a.Frames[0]
		}
	}
	return nil
}

func (p *Part) mismatch(got any, want string) error {
	return model.Mismatchf(p.name, "want %s, got %T", want, got)
}

func (p *Part) impossible() error {
	return fmt.Errorf("%w: part %q has unknown kind %d", model.ErrImpossible, p.name, int(p.kind))
}
