package ioutils

import (
	"image"
	"image/color"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodeDecodeByExtension(t *testing.T) {
	src := solid(8, 4, color.NRGBA{R: 200, G: 10, B: 10, A: 255})

	for _, ext := range []string{".png", ".bmp", ".gif", ".jpg"} {
		t.Run(ext, func(t *testing.T) {
			data, err := EncodeImage(src, ext)
			require.NoError(t, err)

			got, err := DecodeImage(data)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), got.Bounds())
		})
	}
}

func TestEncodeImage_UnknownExtension(t *testing.T) {
	_, err := EncodeImage(solid(1, 1, color.NRGBA{}), ".tga")
	assert.Error(t, err)
}

func TestSaveAndLoadImage(t *testing.T) {
	fsys := afero.NewMemMapFs()
	src := solid(16, 16, color.NRGBA{G: 255, A: 255})

	require.NoError(t, SaveImage(fsys, "/Sample/Hero/Sprite.png", src))

	got, err := LoadImage(fsys, "/Sample/Hero/Sprite.png")
	require.NoError(t, err)
	assert.Equal(t, src.Pix, got.Pix)

	missing, err := LoadImage(fsys, "/Sample/Hero/Missing.png")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCombineAndSplitFrames(t *testing.T) {
	red := solid(4, 3, color.NRGBA{R: 255, A: 255})
	blue := solid(4, 3, color.NRGBA{B: 255, A: 255})

	strip := CombineFrames([]*image.NRGBA{red, blue, red})
	require.NotNil(t, strip)
	assert.Equal(t, image.Rect(0, 0, 12, 3), strip.Bounds())
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, strip.NRGBAAt(5, 1))

	frames := SplitFrames(strip, 3)
	require.Len(t, frames, 3)
	assert.Equal(t, red.Pix, frames[0].Pix)
	assert.Equal(t, blue.Pix, frames[1].Pix)
	assert.Equal(t, image.Rect(0, 0, 4, 3), frames[2].Bounds())

	assert.Nil(t, CombineFrames(nil))
	assert.Nil(t, SplitFrames(strip, 0))
}

func TestResizeImage(t *testing.T) {
	svc := NewImageService()

	thumb := svc.ResizeImage(solid(128, 64, color.NRGBA{A: 255}), 64, 64)
	assert.Equal(t, image.Rect(0, 0, 64, 32), thumb.Bounds())

	small := svc.ResizeImage(solid(16, 16, color.NRGBA{A: 255}), 64, 64)
	assert.Equal(t, image.Rect(0, 0, 16, 16), small.Bounds())

	assert.Nil(t, svc.ResizeImage(nil, 64, 64))
}

func TestImportImage(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, SaveImage(fsys, "/import/hero.bmp", solid(5, 7, color.NRGBA{R: 1, A: 255})))

	img, err := NewImageService().ImportImage(fsys, "/import/hero.bmp")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 7), img.Bounds())

	_, err = NewImageService().ImportImage(fsys, "/import/none.png")
	assert.Error(t, err)
}
