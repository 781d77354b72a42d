package favicon

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/seventv/IconProcessor/src/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestParseLinks(t *testing.T) {
	doc := `<!DOCTYPE html>
<html>
<head>
	<title>Example</title>
	<link rel="stylesheet" href="/style.css">
	<link rel="shortcut icon" href="/favicon.ico">
	<link rel="icon" type="image/png" sizes="16x16 32x32" href="/icons/small.png">
	<link rel="Apple-Touch-Icon" sizes="180x180" href="https://cdn.example.net/touch.png">
	<link rel="icon" sizes="any" href="/icon.svg">
	<link rel="icon" href="data:image/png;base64,AAAA">
	<link rel="icon" href="/favicon.ico#dup" sizes="48x48">
	<meta name="msapplication-TileImage" content="/tile.png">
</head>
<body>
	<link rel="icon" href="/in-body.png">
</body>
</html>`

	refs := ParseLinks(strings.NewReader(doc), mustParse(t, "https://www.example.com/blog/post"))

	assert.Equal(t, []Reference{
		{URL: "https://www.example.com/favicon.ico", Hint: image.Size{Width: 48, Height: 48}},
		{URL: "https://www.example.com/icons/small.png", Hint: image.Size{Width: 32, Height: 32}},
		{URL: "https://cdn.example.net/touch.png", Hint: image.Size{Width: 180, Height: 180}},
		{URL: "https://www.example.com/icon.svg"},
		{URL: "https://www.example.com/tile.png"},
	}, refs)
}

func TestParseLinksHonoursBase(t *testing.T) {
	doc := `<head><base href="/assets/"><base href="/ignored/"><link rel="icon" href="icon.png"></head>`

	refs := ParseLinks(strings.NewReader(doc), mustParse(t, "https://example.com/a/b"))

	require.Len(t, refs, 1)
	assert.Equal(t, "https://example.com/assets/icon.png", refs[0].URL)
}

func TestParseLinksWithoutIcons(t *testing.T) {
	assert.Empty(t, ParseLinks(strings.NewReader("not html at all"), mustParse(t, "https://example.com/")))
	assert.Empty(t, ParseLinks(strings.NewReader(""), mustParse(t, "https://example.com/")))
}

func TestParseSizes(t *testing.T) {
	tests := map[string]image.Size{
		"":              {},
		"any":           {},
		"16x16":         {Width: 16, Height: 16},
		"16x16 192X192": {Width: 192, Height: 192},
		"32x32 bogus":   {Width: 32, Height: 32},
		"x32 32x":       {},
		"64x32 40x40":   {Width: 64, Height: 32},
	}

	for in, expected := range tests {
		assert.Equal(t, expected, ParseSizes(in), in)
	}
}

func TestTagsIntercept(t *testing.T) {
	tr := newFakeTransport(map[string][]byte{
		"https://example.com/home": []byte(`<html><head>
			<link rel="icon" href="/hinted.svg" sizes="96x96">
			<link rel="icon" href="/overstated.png" sizes="512x512">
			<link rel="icon" href="/probed.png">
			<link rel="icon" href="/missing.png" sizes="192x192">
			<link rel="icon" href="/not-an-image.png">
		</head></html>`),
		"https://example.com/hinted.svg":       []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`),
		"https://example.com/overstated.png":   pngOf(t, 16, 16),
		"https://example.com/probed.png":       pngOf(t, 40, 20),
		"https://example.com/not-an-image.png": []byte("<html>oops</html>"),
	})
	tr.redirects["https://example.com/"] = "https://example.com/home"

	tags := NewTags(tr, NewProber(tr, 0), 2)
	candidates := tags.Intercept(context.Background(), mustParse(t, "https://example.com/"))

	assert.Equal(t, []Candidate{
		{URL: "https://example.com/hinted.svg", Type: image.SVG, Size: image.Size{Width: 96, Height: 96}},
		{URL: "https://example.com/overstated.png", Type: image.PNG, Size: image.Size{Width: 16, Height: 16}},
		{URL: "https://example.com/probed.png", Type: image.PNG, Size: image.Size{Width: 40, Height: 20}},
	}, candidates)
	assert.Contains(t, tr.requested, "https://example.com/missing.png", "hinted icons are still fetched")
}

func TestDeadHintedLinkLosesToWellKnown(t *testing.T) {
	tr := newFakeTransport(map[string][]byte{
		"https://example.com/":            []byte(`<html><head><link rel="icon" sizes="512x512" href="/gone.png"></head></html>`),
		"https://example.com/favicon.ico": pngOf(t, 32, 32),
	})

	best, ok, err := NewFinder(tr, Options{}).Discover(context.Background(), "https://example.com/")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Candidate{
		URL:  "https://example.com/favicon.ico",
		Type: image.PNG,
		Size: image.Size{Width: 32, Height: 32},
	}, best)
}

func TestTagsInterceptUnreachablePage(t *testing.T) {
	tr := newFakeTransport(map[string][]byte{})

	tags := NewTags(tr, NewProber(tr, 0), 0)
	assert.Empty(t, tags.Intercept(context.Background(), mustParse(t, "https://example.com/")))
}

func TestProberSVGWithoutSize(t *testing.T) {
	tr := newFakeTransport(map[string][]byte{
		"https://example.com/icon.svg": []byte(`<svg xmlns="http://www.w3.org/2000/svg"><circle r="4"/></svg>`),
	})

	c, err := NewProber(tr, 128).Probe(context.Background(), "https://example.com/icon.svg")
	require.NoError(t, err)
	assert.Equal(t, image.SVG, c.Type)
	assert.Equal(t, image.Size{Width: 128, Height: 128}, c.Size)
}

func TestProberRejectsNonImages(t *testing.T) {
	tr := newFakeTransport(map[string][]byte{
		"https://example.com/favicon.ico": []byte("<!doctype html><title>404</title>"),
	})

	_, err := NewProber(tr, 0).Probe(context.Background(), "https://example.com/favicon.ico")
	assert.ErrorIs(t, err, ErrNotImage)
}
