package ioutils

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration for imported sources
)

// EncodeImage encodes img in the format named by ext (".png", ".jpg",
// ".jpeg", ".gif" or ".bmp").
func EncodeImage(img image.Image, ext string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(ext) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case ".gif":
		err = gif.Encode(&buf, img, nil)
	case ".bmp":
		err = bmp.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("unsupported image extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeImage decodes PNG, JPEG, GIF, BMP or WebP data into an NRGBA image
// anchored at the origin.
func DecodeImage(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img), nil
}

// LoadImage reads and decodes the image at path. A missing file yields a
// nil image and no error.
func LoadImage(fsys afero.Fs, path string) (*image.NRGBA, error) {
	data, ok, err := ReadFileIfExists(fsys, path)
	if err != nil || !ok {
		return nil, err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SaveImage encodes img using the extension of path and writes it.
func SaveImage(fsys afero.Fs, path string, img image.Image) error {
	data, err := EncodeImage(img, filepath.Ext(path))
	if err != nil {
		return err
	}
	return WriteFile(fsys, path, data)
}

// ToNRGBA copies any image into a new NRGBA image whose bounds start at the
// origin. A nil image yields nil.
func ToNRGBA(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}

// CombineFrames lays frames out left to right in one strip of
// frameWidth × len(frames) by frameHeight, where the frame size is taken
// from the first frame. Larger frames are clipped to that size.
//
// Returns nil when there are no frames.
func CombineFrames(frames []*image.NRGBA) *image.NRGBA {
	if len(frames) == 0 || frames[0] == nil {
		return nil
	}
	size := frames[0].Bounds().Size()
	strip := image.NewNRGBA(image.Rect(0, 0, size.X*len(frames), size.Y))
	for i, f := range frames {
		if f == nil {
			continue
		}
		b := f.Bounds()
		sr := image.Rectangle{Min: b.Min, Max: b.Min.Add(size)}.Intersect(b)
		draw.Copy(strip, image.Pt(i*size.X, 0), f, sr, draw.Src, nil)
	}
	return strip
}

// SplitFrames cuts a horizontal strip into n equally wide frames.
func SplitFrames(strip *image.NRGBA, n int) []*image.NRGBA {
	if strip == nil || n <= 0 {
		return nil
	}
	b := strip.Bounds()
	width := b.Dx() / n
	frames := make([]*image.NRGBA, 0, n)
	for i := 0; i < n; i++ {
		r := image.Rect(b.Min.X+i*width, b.Min.Y, b.Min.X+(i+1)*width, b.Max.Y)
		frames = append(frames, ToNRGBA(strip.SubImage(r)))
	}
	return frames
}

// ImageService provides image processing for icons and imported artwork.
//
// Example usage:
//
//	svc := NewImageService()
//	icon := svc.ResizeImage(sprite, 64, 64)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. Images already within the limits are
// copied at their original size.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 128x64 sprite becomes 64x32
//	thumb := svc.ResizeImage(sprite, 64, 64)
func (s *ImageService) ResizeImage(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Calculate new dimensions maintaining aspect ratio
	if (width > maxWidth || height > maxHeight) && width > 0 && height > 0 {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = max(1, int(float64(maxHeight)*ratio))
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = max(1, int(float64(maxWidth)/ratio))
			width = maxWidth
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// ImportImage reads an image from any supported source format, including
// WebP, for storing into an image part.
func (s *ImageService) ImportImage(fsys afero.Fs, path string) (*image.NRGBA, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
