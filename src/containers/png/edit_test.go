package png

import (
	"bytes"
	nImage "image"
	"image/color"
	nPng "image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halves returns a w x h image, red on the left half and blue on the right.
func halves(w, h int) *nImage.RGBA {
	img := nImage.NewRGBA(nImage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEditBounds(t *testing.T) {
	for _, tt := range []struct{ w, h int }{{32, 32}, {64, 16}, {10, 90}, {1, 1}} {
		out := Edit(halves(100, 40), tt.w, tt.h)
		assert.Equal(t, nImage.Rect(0, 0, tt.w, tt.h), out.Bounds())
	}
}

func TestEditCropsFromTheCentre(t *testing.T) {
	// a 4:1 source cropped to a square keeps the middle, which is half red and half blue
	out := Edit(halves(400, 100), 20, 20)

	left := color.RGBAModel.Convert(out.At(2, 10)).(color.RGBA)
	right := color.RGBAModel.Convert(out.At(17, 10)).(color.RGBA)

	assert.Greater(t, left.R, left.B)
	assert.Greater(t, right.B, right.R)
}

func TestEncode(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, Encode(&buf, halves(8, 8)))

	assert.True(t, Test(buf.Bytes()))

	cfg, err := nPng.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}
