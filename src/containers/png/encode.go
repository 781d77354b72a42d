package png

import (
	nImage "image"
	nPng "image/png"
	"io"
)

var encoder = nPng.Encoder{CompressionLevel: nPng.BestCompression}

func Encode(w io.Writer, img nImage.Image) error {
	return encoder.Encode(w, img)
}
