package webp

import (
	"io"

	"github.com/seventv/IconProcessor/src/image"
	xWebp "golang.org/x/image/webp"
)

const Length = 12

func Test(data []byte) bool {
	if len(data) < Length {
		return false
	}

	// WEBP Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 'R' &&
		data[1] == 'I' &&
		data[2] == 'F' &&
		data[3] == 'F' &&
		data[8] == 'W' &&
		data[9] == 'E' &&
		data[10] == 'B' &&
		data[11] == 'P'
}

func Size(r io.Reader) (image.Size, error) {
	cfg, err := xWebp.DecodeConfig(r)
	if err != nil {
		return image.Size{}, err
	}

	return image.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
