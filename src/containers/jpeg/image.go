package jpeg

import (
	"io"

	nJpeg "image/jpeg"

	"github.com/seventv/IconProcessor/src/image"
)

const Length = 3

func Test(data []byte) bool {
	if len(data) < Length {
		return false
	}

	// JPEG Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 0xFF &&
		data[1] == 0xD8 &&
		data[2] == 0xFF
}

func Size(r io.Reader) (image.Size, error) {
	cfg, err := nJpeg.DecodeConfig(r)
	if err != nil {
		return image.Size{}, err
	}

	return image.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
