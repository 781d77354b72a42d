package png

import (
	nImage "image"

	"golang.org/x/image/draw"
)

// Edit centre-crops src to the aspect ratio of width x height and scales
// the crop to exactly that size.
func Edit(src nImage.Image, width, height int) nImage.Image {
	b := src.Bounds()
	w, h := int64(b.Dx()), int64(b.Dy())
	tw, th := int64(width), int64(height)

	crop := b
	if w*th > h*tw {
		// wider than the target, crop the sides
		cw := int(h * tw / th)
		offset := (b.Dx() - cw) / 2
		crop = nImage.Rect(b.Min.X+offset, b.Min.Y, b.Min.X+offset+cw, b.Max.Y)
	} else if w*th < h*tw {
		// taller than the target, crop top and bottom
		ch := int(w * th / tw)
		offset := (b.Dy() - ch) / 2
		crop = nImage.Rect(b.Min.X, b.Min.Y+offset, b.Max.X, b.Min.Y+offset+ch)
	}

	dst := nImage.NewRGBA(nImage.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	return dst
}
