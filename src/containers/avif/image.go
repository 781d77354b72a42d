package avif

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/seventv/IconProcessor/src/image"
)

const Length = 12

// boxes of interest sit inside meta/iprp, well before any image data
const headerLimit = 64 * 1024

var ErrNoSpatialExtents = fmt.Errorf("avif: no ispe box in header")

func Test(data []byte) bool {
	if len(data) < Length {
		return false
	}

	// AVIF Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[4] == 'f' &&
		data[5] == 't' &&
		data[6] == 'y' &&
		data[7] == 'p' &&
		data[8] == 'a' &&
		data[9] == 'v' &&
		data[10] == 'i' &&
		(data[11] == 'f' || data[11] == 's')
}

// Size reads the first image spatial extents property (ispe).
func Size(r io.Reader) (image.Size, error) {
	br := bufio.NewReader(io.LimitReader(r, headerLimit))

	// ispe: size(4) 'ispe'(4) version+flags(4) width(4) height(4)
	window := make([]byte, 0, 4)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return image.Size{}, ErrNoSpatialExtents
		}

		if len(window) == 4 {
			copy(window, window[1:])
			window = window[:3]
		}
		window = append(window, b)
		if string(window) != "ispe" {
			continue
		}

		buf := make([]byte, 12)
		if _, err := io.ReadFull(br, buf); err != nil {
			return image.Size{}, ErrNoSpatialExtents
		}

		return image.Size{
			Width:  int(binary.BigEndian.Uint32(buf[4:8])),
			Height: int(binary.BigEndian.Uint32(buf[8:12])),
		}, nil
	}
}
