package image

import "math"

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area is Width*Height, clamped to math.MaxInt instead of wrapping.
// Negative dimensions count as zero.
func (s Size) Area() int {
	if s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	if s.Width > math.MaxInt/s.Height {
		return math.MaxInt
	}
	return s.Width * s.Height
}

type ImageType string

const (
	Undefined ImageType = ""
	AVIF      ImageType = "avif"
	BMP       ImageType = "bmp"
	GIF       ImageType = "gif"
	ICO       ImageType = "ico"
	JPEG      ImageType = "jpeg"
	PNG       ImageType = "png"
	SVG       ImageType = "svg"
	TIFF      ImageType = "tiff"
	WEBP      ImageType = "webp"
)

var contentTypes = map[ImageType]string{
	AVIF: "image/avif",
	BMP:  "image/bmp",
	GIF:  "image/gif",
	ICO:  "image/x-icon",
	JPEG: "image/jpeg",
	PNG:  "image/png",
	SVG:  "image/svg+xml",
	TIFF: "image/tiff",
	WEBP: "image/webp",
}

func (t ImageType) ContentType() string {
	if v, ok := contentTypes[t]; ok {
		return v
	}
	return "application/octet-stream"
}

func (t ImageType) Ext() string {
	if t == Undefined {
		return "bin"
	}
	return string(t)
}

// Raster reports whether payloads of this type can be decoded into pixels.
func (t ImageType) Raster() bool {
	return t != Undefined && t != SVG
}

func (t ImageType) String() string {
	if t == Undefined {
		return "undefined"
	}
	return string(t)
}
