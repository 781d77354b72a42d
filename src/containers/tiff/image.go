package tiff

import (
	"io"

	"github.com/seventv/IconProcessor/src/image"
	xTiff "golang.org/x/image/tiff"
)

const Length = 4

func Test(data []byte) bool {
	if len(data) < Length {
		return false
	}

	// TIFF Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return (data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A && data[3] == 0x00) ||
		(data[0] == 'M' && data[1] == 'M' && data[2] == 0x00 && data[3] == 0x2A)
}

func Size(r io.Reader) (image.Size, error) {
	cfg, err := xTiff.DecodeConfig(r)
	if err != nil {
		return image.Size{}, err
	}

	return image.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
