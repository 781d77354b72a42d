package favicon

import (
	"context"
	"net/url"
	"time"
)

// Strategy finds icon candidates for a page. Expected failures (network
// errors, missing tags, non-image content) yield an empty result instead of
// an error.
type Strategy interface {
	Name() string
	Intercept(ctx context.Context, page *url.URL) []Candidate
}

var DefaultWellKnownPaths = []string{
	"/favicon.ico",
	"/favicon.png",
	"/apple-touch-icon.png",
	"/apple-touch-icon-precomposed.png",
}

const (
	DefaultProbeConcurrency = 4
	DefaultSVGSize          = 256
)

type Options struct {
	WellKnownPaths   []string
	ProbeConcurrency int
	// SVGSize is the edge length assumed for svg icons that declare no size.
	SVGSize int
	// Timeout bounds a whole discovery, zero means no limit.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if len(o.WellKnownPaths) == 0 {
		o.WellKnownPaths = DefaultWellKnownPaths
	}
	if o.ProbeConcurrency <= 0 {
		o.ProbeConcurrency = DefaultProbeConcurrency
	}
	if o.SVGSize <= 0 {
		o.SVGSize = DefaultSVGSize
	}
	return o
}
