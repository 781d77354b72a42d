package bmp

import (
	"io"

	"github.com/seventv/IconProcessor/src/image"
	xBmp "golang.org/x/image/bmp"
)

const Length = 2

// Test only looks at the two byte "BM" marker, so bmp has to stay behind
// every longer signature in the registry.
func Test(data []byte) bool {
	if len(data) < Length {
		return false
	}

	// BMP Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 'B' &&
		data[1] == 'M'
}

func Size(r io.Reader) (image.Size, error) {
	cfg, err := xBmp.DecodeConfig(r)
	if err != nil {
		return image.Size{}, err
	}

	return image.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
