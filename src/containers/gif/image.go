package gif

import (
	"io"

	nGif "image/gif"

	"github.com/seventv/IconProcessor/src/image"
)

const Length = 6

func Test(data []byte) bool {
	if len(data) < Length {
		return false
	}

	// GIF Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 'G' &&
		data[1] == 'I' &&
		data[2] == 'F' &&
		data[3] == '8' &&
		(data[4] == '7' || data[4] == '9') &&
		data[5] == 'a'
}

func Size(r io.Reader) (image.Size, error) {
	cfg, err := nGif.DecodeConfig(r)
	if err != nil {
		return image.Size{}, err
	}

	return image.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
