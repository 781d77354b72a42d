package containers

import (
	"bytes"
	"encoding/binary"
	"errors"
	nImage "image"
	nGif "image/gif"
	nJpeg "image/jpeg"
	nPng "image/png"
	"io"
	"testing"

	"github.com/seventv/IconProcessor/src/containers/svg"
	"github.com/seventv/IconProcessor/src/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xBmp "golang.org/x/image/bmp"
)

var samples = []struct {
	name     string
	data     []byte
	expected image.ImageType
}{
	{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, image.PNG},
	{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, image.JPEG},
	{"gif87a", []byte("GIF87a"), image.GIF},
	{"gif89a", []byte("GIF89a\x10\x00\x10\x00"), image.GIF},
	{"webp", []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'W', 'E', 'B', 'P', 'V', 'P', '8'}, image.WEBP},
	{"avif", []byte{0, 0, 0, 0x1C, 'f', 't', 'y', 'p', 'a', 'v', 'i', 'f'}, image.AVIF},
	{"tiff little endian", []byte{'I', 'I', 0x2A, 0x00, 0x08}, image.TIFF},
	{"tiff big endian", []byte{'M', 'M', 0x00, 0x2A}, image.TIFF},
	{"ico", []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10}, image.ICO},
	{"bmp", []byte("BM\x36\x00\x00\x00"), image.BMP},
	{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), image.SVG},
	{"svg with prolog", []byte("\xEF\xBB\xBF<?xml version=\"1.0\"?>\n<!-- icon -->\n<!DOCTYPE svg>\n<svg width=\"16\">"), image.SVG},
	{"undefined", []byte{0x00, 0x01, 0x02}, image.Undefined},
	{"empty", []byte{}, image.Undefined},
	{"png signature only", []byte{0x89, 0x50, 0x4E, 0x47}, image.PNG},
	{"truncated png", []byte{0x89, 0x50, 0x4E}, image.Undefined},
	{"ico without images", []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x00}, image.Undefined},
	{"riff but not webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), image.Undefined},
	{"html", []byte("<!DOCTYPE html><html><body><svg></svg></body></html>"), image.Undefined},
	{"svg prefix of a longer tag", []byte("<svgfoo>"), image.Undefined},
}

func TestToType(t *testing.T) {
	for _, tt := range samples {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToType(tt.data))
		})
	}
}

func TestToTypeStreamAgreesWithBuffer(t *testing.T) {
	for _, tt := range samples {
		t.Run(tt.name, func(t *testing.T) {
			typ, prefix, err := ToTypeStream(bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, ToType(tt.data), typ)
			assert.True(t, bytes.HasPrefix(tt.data, prefix), "prefix must be the head of the stream")
		})
	}
}

// countingReader records every Read call and how many bytes it handed out.
type countingReader struct {
	r     io.Reader
	n     int
	calls int
	eofs  int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.calls++
	n, err := c.r.Read(p)
	c.n += n
	if err == io.EOF {
		c.eofs++
	}
	return n, err
}

func TestToTypeStreamBoundedRead(t *testing.T) {
	payload := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0xAA}, 4096)...)
	r := &countingReader{r: bytes.NewReader(payload)}

	typ, prefix, err := ToTypeStream(r)
	require.NoError(t, err)
	assert.Equal(t, image.PNG, typ)
	assert.Len(t, prefix, 4)
	assert.Equal(t, 4, r.n)

	// jpeg is second and needs fewer bytes than png already pulled
	r = &countingReader{r: bytes.NewReader(append([]byte{0xFF, 0xD8, 0xFF}, payload...))}
	typ, prefix, err = ToTypeStream(r)
	require.NoError(t, err)
	assert.Equal(t, image.JPEG, typ)
	assert.Equal(t, 4, r.n)
	assert.Len(t, prefix, 4)

	// webp needs 12, nothing earlier needs more
	r = &countingReader{r: bytes.NewReader([]byte("RIFF\x00\x00\x00\x00WEBPVP8 and more bytes"))}
	typ, _, err = ToTypeStream(r)
	require.NoError(t, err)
	assert.Equal(t, image.WEBP, typ)
	assert.Equal(t, 12, r.n)

	// unknown payloads are read up to the longest signature and no further
	r = &countingReader{r: bytes.NewReader(bytes.Repeat([]byte{0x01}, 4096))}
	typ, prefix, err = ToTypeStream(r)
	require.NoError(t, err)
	assert.Equal(t, image.Undefined, typ)
	assert.Equal(t, svg.Length, r.n)
	assert.Len(t, prefix, svg.Length)
}

func TestToTypeStreamStopsReadingAfterEOF(t *testing.T) {
	r := &countingReader{r: bytes.NewReader([]byte{0x00, 0x01, 0x02})}

	typ, prefix, err := ToTypeStream(r)
	require.NoError(t, err)
	assert.Equal(t, image.Undefined, typ)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, prefix)
	assert.Equal(t, 1, r.eofs)
}

func TestToTypeStreamEmpty(t *testing.T) {
	typ, prefix, err := ToTypeStream(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, image.Undefined, typ)
	assert.Empty(t, prefix)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestToTypeStreamReadError(t *testing.T) {
	_, _, err := ToTypeStream(failingReader{})
	assert.EqualError(t, err, "connection reset")
}

func TestTestStreamThreadsPrefix(t *testing.T) {
	std := Registry()
	require.Equal(t, image.PNG, std[0].Type)
	require.Equal(t, image.JPEG, std[1].Type)

	r := bytes.NewReader([]byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x08, 0x09})

	ok, prefix, err := std[0].TestStream(r, Prefix{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, prefix.Data, 4)

	ok, prefix, err = std[1].TestStream(r, prefix)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, prefix.Data, 4, "jpeg reuses the png prefix")
	assert.Equal(t, 5, r.Len())
}

func TestRegistryOrder(t *testing.T) {
	order := []image.ImageType{}
	for _, s := range Registry() {
		order = append(order, s.Type)
	}

	assert.Equal(t, []image.ImageType{
		image.PNG, image.JPEG, image.GIF, image.WEBP, image.AVIF,
		image.TIFF, image.ICO, image.BMP, image.SVG,
	}, order)

	// mutating the copy leaves the registry alone
	reg := Registry()
	reg[0].Type = image.BMP
	assert.Equal(t, image.PNG, Registry()[0].Type)
}

func encoded(t *testing.T, enc func(io.Writer, nImage.Image) error, w, h int) []byte {
	t.Helper()
	buf := bytes.Buffer{}
	require.NoError(t, enc(&buf, nImage.NewRGBA(nImage.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func icoHeader(sizes ...[2]byte) []byte {
	buf := []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x00}
	binary.LittleEndian.PutUint16(buf[4:], uint16(len(sizes)))
	for _, s := range sizes {
		entry := make([]byte, 16)
		entry[0], entry[1] = s[0], s[1]
		buf = append(buf, entry...)
	}
	return buf
}

func TestDimensions(t *testing.T) {
	avifData := append([]byte{0, 0, 0, 0x1C, 'f', 't', 'y', 'p', 'a', 'v', 'i', 'f', 0, 0, 0, 0}, []byte("....meta....iprp....ipco\x00\x00\x00\x14ispe\x00\x00\x00\x00\x00\x00\x00\x60\x00\x00\x00\x30")...)

	tests := []struct {
		name     string
		data     []byte
		expected image.Size
	}{
		{"png", encoded(t, nPng.Encode, 48, 32), image.Size{Width: 48, Height: 32}},
		{"gif", encoded(t, func(w io.Writer, m nImage.Image) error { return nGif.Encode(w, m, nil) }, 16, 16), image.Size{Width: 16, Height: 16}},
		{"jpeg", encoded(t, func(w io.Writer, m nImage.Image) error { return nJpeg.Encode(w, m, nil) }, 64, 20), image.Size{Width: 64, Height: 20}},
		{"bmp", encoded(t, xBmp.Encode, 24, 24), image.Size{Width: 24, Height: 24}},
		{"ico picks the largest entry", icoHeader([2]byte{16, 16}, [2]byte{0, 0}, [2]byte{32, 32}), image.Size{Width: 256, Height: 256}},
		{"avif", avifData, image.Size{Width: 96, Height: 48}},
		{"svg width and height", []byte(`<svg width="120px" height="60"></svg>`), image.Size{Width: 120, Height: 60}},
		{"svg view box", []byte(`<?xml version="1.0"?><svg viewBox="0 0 512 256"></svg>`), image.Size{Width: 512, Height: 256}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := ToType(tt.data)
			require.NotEqual(t, image.Undefined, typ)

			size, err := Dimensions(typ, bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, size)
		})
	}
}

func TestDimensionsErrors(t *testing.T) {
	_, err := Dimensions(image.Undefined, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Dimensions(image.SVG, bytes.NewReader([]byte(`<svg width="100%"></svg>`)))
	assert.ErrorIs(t, err, svg.ErrUnsized)

	_, err = Dimensions(image.PNG, bytes.NewReader([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}))
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	img, err := Decode(image.PNG, bytes.NewReader(encoded(t, nPng.Encode, 10, 12)))
	require.NoError(t, err)
	assert.Equal(t, nImage.Rect(0, 0, 10, 12), img.Bounds())

	_, err = Decode(image.SVG, bytes.NewReader([]byte("<svg/>")))
	assert.ErrorIs(t, err, ErrNotRaster)

	_, err = Decode(image.Undefined, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
