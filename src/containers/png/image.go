package png

import (
	"io"

	nPng "image/png"

	"github.com/seventv/IconProcessor/src/image"
)

const Length = 4

func Test(data []byte) bool {
	if len(data) < Length {
		return false
	}

	// PNG Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 0x89 &&
		data[1] == 'P' &&
		data[2] == 'N' &&
		data[3] == 'G'
}

func Size(r io.Reader) (image.Size, error) {
	cfg, err := nPng.DecodeConfig(r)
	if err != nil {
		return image.Size{}, err
	}

	return image.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
