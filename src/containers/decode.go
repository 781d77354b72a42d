package containers

import (
	"fmt"
	nImage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	goIco "github.com/sergeymakinen/go-ico"
	"github.com/seventv/IconProcessor/src/image"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNotRaster = fmt.Errorf("format cannot be decoded to pixels")

// Decode decodes the first frame of a payload already classified as t.
func Decode(t image.ImageType, r io.Reader) (nImage.Image, error) {
	switch t {
	case image.ICO:
		return goIco.Decode(r)
	case image.PNG, image.JPEG, image.GIF, image.BMP, image.WEBP, image.TIFF:
		img, _, err := nImage.Decode(r)
		return img, err
	case image.Undefined:
		return nil, ErrUnknownFormat
	default:
		return nil, ErrNotRaster
	}
}
