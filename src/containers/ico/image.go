// Package ico recognizes Windows ICO files and reads their directory.
package ico

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/seventv/IconProcessor/src/image"
)

// ICONDIR header plus its image count.
const Length = 6

const entryLength = 16

var ErrEmptyDirectory = fmt.Errorf("ico: directory has no entries")

func Test(data []byte) bool {
	if len(data) < Length {
		return false
	}

	// ICO Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 0x00 &&
		data[1] == 0x00 &&
		data[2] == 0x01 &&
		data[3] == 0x00 &&
		(data[4] != 0x00 || data[5] != 0x00)
}

// Size returns the dimensions of the largest image in the directory.
// http://msdn.microsoft.com/en-us/library/ms997538.aspx
func Size(r io.Reader) (image.Size, error) {
	hdr := make([]byte, Length)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return image.Size{}, err
	}
	if !Test(hdr) {
		return image.Size{}, fmt.Errorf("ico: bad header")
	}

	count := int(binary.LittleEndian.Uint16(hdr[4:6]))
	entry := make([]byte, entryLength)

	var best image.Size
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, entry); err != nil {
			if i == 0 {
				return image.Size{}, err
			}
			break
		}

		// a zero width or height byte means 256
		size := image.Size{Width: int(entry[0]), Height: int(entry[1])}
		if size.Width == 0 {
			size.Width = 256
		}
		if size.Height == 0 {
			size.Height = 256
		}

		if size.Area() > best.Area() {
			best = size
		}
	}

	if best.Area() == 0 {
		return image.Size{}, ErrEmptyDirectory
	}

	return best, nil
}
