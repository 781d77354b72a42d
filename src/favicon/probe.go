package favicon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/seventv/IconProcessor/src/containers"
	"github.com/seventv/IconProcessor/src/containers/svg"
	"github.com/seventv/IconProcessor/src/image"
	"github.com/seventv/IconProcessor/src/transport"
)

var ErrNotImage = fmt.Errorf("content is not a recognized image")

// Prober fetches a candidate url and measures it. Only payloads the sniffer
// recognizes become candidates.
type Prober struct {
	transport transport.Transport
	svgSize   int
}

func NewProber(t transport.Transport, svgSize int) *Prober {
	if svgSize <= 0 {
		svgSize = DefaultSVGSize
	}

	return &Prober{
		transport: t,
		svgSize:   svgSize,
	}
}

func (p *Prober) Probe(ctx context.Context, u string) (Candidate, error) {
	resp, err := p.transport.Fetch(ctx, u)
	if err != nil {
		return Candidate{}, err
	}
	defer resp.Body.Close()

	imgType, prefix, err := containers.ToTypeStream(resp.Body)
	if err != nil {
		return Candidate{}, fmt.Errorf("read %s: %w", u, err)
	}
	if imgType == image.Undefined {
		return Candidate{}, fmt.Errorf("%w: %s", ErrNotImage, u)
	}

	size, err := containers.Dimensions(imgType, io.MultiReader(bytes.NewReader(prefix), resp.Body))
	if err != nil {
		if imgType != image.SVG || !errors.Is(err, svg.ErrUnsized) {
			return Candidate{}, fmt.Errorf("measure %s: %w", u, err)
		}
		size = image.Size{Width: p.svgSize, Height: p.svgSize}
	}

	return Candidate{
		URL:  finalURL(resp, u),
		Type: imgType,
		Size: size,
	}, nil
}

func finalURL(resp *transport.Response, requested string) string {
	if resp.URL != nil {
		return resp.URL.String()
	}
	return requested
}

// resolve makes href absolute against base, keeping only http(s) results.
func resolve(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}

	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	u.Fragment = ""

	return u, true
}
