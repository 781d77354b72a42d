package containers

import (
	"errors"
	"fmt"
	"io"

	"github.com/seventv/IconProcessor/src/containers/avif"
	"github.com/seventv/IconProcessor/src/containers/bmp"
	"github.com/seventv/IconProcessor/src/containers/gif"
	"github.com/seventv/IconProcessor/src/containers/ico"
	"github.com/seventv/IconProcessor/src/containers/jpeg"
	"github.com/seventv/IconProcessor/src/containers/png"
	"github.com/seventv/IconProcessor/src/containers/svg"
	"github.com/seventv/IconProcessor/src/containers/tiff"
	"github.com/seventv/IconProcessor/src/containers/webp"
	"github.com/seventv/IconProcessor/src/image"
)

var (
	ErrUnknownFormat = fmt.Errorf("unknown image format")
)

// Standard describes one image container signature.
type Standard struct {
	Type image.ImageType
	// Length is how many leading bytes Test needs to decide.
	Length int
	Test   func(data []byte) bool
	Size   func(r io.Reader) (image.Size, error)
}

// Prefix is the part of a stream already consumed while sniffing.
type Prefix struct {
	Data []byte
	// EOF is set once the stream reported its end, so no later standard
	// asks it for more bytes.
	EOF bool
}

// registry is ordered: the first matching standard wins. Longer and more
// specific signatures go first, bmp's two byte marker after all of them and
// the loose text based svg check last.
var registry = []Standard{
	{Type: image.PNG, Length: png.Length, Test: png.Test, Size: png.Size},
	{Type: image.JPEG, Length: jpeg.Length, Test: jpeg.Test, Size: jpeg.Size},
	{Type: image.GIF, Length: gif.Length, Test: gif.Test, Size: gif.Size},
	{Type: image.WEBP, Length: webp.Length, Test: webp.Test, Size: webp.Size},
	{Type: image.AVIF, Length: avif.Length, Test: avif.Test, Size: avif.Size},
	{Type: image.TIFF, Length: tiff.Length, Test: tiff.Test, Size: tiff.Size},
	{Type: image.ICO, Length: ico.Length, Test: ico.Test, Size: ico.Size},
	{Type: image.BMP, Length: bmp.Length, Test: bmp.Test, Size: bmp.Size},
	{Type: image.SVG, Length: svg.Length, Test: svg.Test, Size: svg.Size},
}

// Registry returns a copy of the ordered signature registry.
func Registry() []Standard {
	out := make([]Standard, len(registry))
	copy(out, registry)
	return out
}

// Match tests the first Length bytes of data.
func (s Standard) Match(data []byte) bool {
	if len(data) > s.Length {
		data = data[:s.Length]
	}
	return s.Test(data)
}

// TestStream extends prefix up to Length bytes from r and tests it. The
// returned prefix must be handed to the next standard.
func (s Standard) TestStream(r io.Reader, prefix Prefix) (bool, Prefix, error) {
	if missing := s.Length - len(prefix.Data); missing > 0 && !prefix.EOF {
		buf := make([]byte, missing)
		n, err := io.ReadFull(r, buf)
		prefix.Data = append(prefix.Data, buf[:n]...)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				return false, prefix, err
			}
			prefix.EOF = true
		}
	}

	return s.Match(prefix.Data), prefix, nil
}

func ToType(data []byte) image.ImageType {
	for _, s := range registry {
		if s.Match(data) {
			return s.Type
		}
	}

	return image.Undefined
}

// ToTypeStream classifies r reading each byte at most once. The returned
// bytes are everything consumed from r; prepend them to r to read the
// payload from the start.
func ToTypeStream(r io.Reader) (image.ImageType, []byte, error) {
	var (
		prefix Prefix
		ok     bool
		err    error
	)

	for _, s := range registry {
		ok, prefix, err = s.TestStream(r, prefix)
		if err != nil {
			return image.Undefined, prefix.Data, err
		}
		if ok {
			return s.Type, prefix.Data, nil
		}
	}

	return image.Undefined, prefix.Data, nil
}

// Dimensions reads the pixel size from the header of a payload of type t.
func Dimensions(t image.ImageType, r io.Reader) (image.Size, error) {
	for _, s := range registry {
		if s.Type == t {
			return s.Size(r)
		}
	}

	return image.Size{}, ErrUnknownFormat
}
