package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/seventv/IconProcessor/src/image"
	"golang.org/x/net/html"
)

// Length bounds how far past the prolog the root element may start.
const Length = 512

const headerLimit = 64 * 1024

// ErrUnsized is returned for documents whose root element carries neither
// absolute width/height nor a viewBox.
var ErrUnsized = fmt.Errorf("svg: no intrinsic size")

var bom = []byte{0xEF, 0xBB, 0xBF}

func Test(data []byte) bool {
	if len(data) > Length {
		data = data[:Length]
	}

	data = bytes.TrimPrefix(data, bom)
	for {
		data = bytes.TrimLeft(data, " \t\r\n")

		switch {
		case hasPrefixFold(data, "<svg"):
			return len(data) == 4 || strings.IndexByte(" \t\r\n>/", data[4]) >= 0
		case bytes.HasPrefix(data, []byte("<?")):
			data = skipPast(data, "?>")
		case bytes.HasPrefix(data, []byte("<!--")):
			data = skipPast(data, "-->")
		case hasPrefixFold(data, "<!doctype"):
			data = skipPast(data, ">")
		default:
			return false
		}

		if data == nil {
			return false
		}
	}
}

func Size(r io.Reader) (image.Size, error) {
	z := html.NewTokenizer(io.LimitReader(r, headerLimit))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return image.Size{}, ErrUnsized
			}
			return image.Size{}, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "svg" {
				continue
			}
			return rootSize(tok.Attr)
		}
	}
}

func rootSize(attrs []html.Attribute) (image.Size, error) {
	var (
		size    image.Size
		viewBox string
	)

	for _, a := range attrs {
		switch a.Key {
		case "width":
			size.Width = length(a.Val)
		case "height":
			size.Height = length(a.Val)
		case "viewbox":
			viewBox = a.Val
		}
	}

	if size.Width > 0 && size.Height > 0 {
		return size, nil
	}

	fields := strings.FieldsFunc(viewBox, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) == 4 {
		w, h := length(fields[2]), length(fields[3])
		if w > 0 && h > 0 {
			return image.Size{Width: w, Height: h}, nil
		}
	}

	return image.Size{}, ErrUnsized
}

// length parses absolute user units; relative units yield zero.
func length(v string) int {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(f))
}

func hasPrefixFold(data []byte, prefix string) bool {
	return len(data) >= len(prefix) && strings.EqualFold(string(data[:len(prefix)]), prefix)
}

func skipPast(data []byte, end string) []byte {
	i := bytes.Index(data, []byte(end))
	if i < 0 {
		return nil
	}
	return data[i+len(end):]
}
