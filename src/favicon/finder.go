package favicon

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/seventv/IconProcessor/src/transport"
	"github.com/sirupsen/logrus"
)

var ErrInvalidURL = fmt.Errorf("invalid page url")

// Finder runs every strategy against a page and keeps the largest icon.
type Finder struct {
	strategies []Strategy
	timeout    time.Duration
}

// NewFinder builds the default strategy set on top of t.
func NewFinder(t transport.Transport, opts Options) *Finder {
	opts = opts.withDefaults()

	prober := NewProber(t, opts.SVGSize)
	wellKnown := NewWellKnown(prober, opts.WellKnownPaths, opts.ProbeConcurrency)

	f := New(
		wellKnown,
		NewTags(t, prober, opts.ProbeConcurrency),
		NewBaseDomain(wellKnown),
	)
	f.timeout = opts.Timeout

	return f
}

func New(strategies ...Strategy) *Finder {
	return &Finder{strategies: strategies}
}

// Discover returns the best icon for pageURL. Finding nothing is not an
// error: ok is false. The error is ErrInvalidURL for unusable input or the
// context error when ctx ends before every strategy is done.
func (f *Finder) Discover(ctx context.Context, pageURL string) (Candidate, bool, error) {
	page, err := url.Parse(pageURL)
	if err != nil || (page.Scheme != "http" && page.Scheme != "https") || page.Host == "" {
		return Candidate{}, false, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	results := make([][]Candidate, len(f.strategies))

	wg := sync.WaitGroup{}
	wg.Add(len(f.strategies))
	for i, s := range f.strategies {
		go func(i int, s Strategy) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("strategy", s.Name()).Error("strategy panicked: ", r)
				}
			}()

			p := *page
			results[i] = s.Intercept(ctx, &p)
		}(i, s)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Candidate{}, false, err
	}

	candidates := []Candidate{}
	for i, r := range results {
		logrus.WithField("strategy", f.strategies[i].Name()).WithField("page", pageURL).Debugf("%d candidates", len(r))
		candidates = append(candidates, r...)
	}

	best, ok := Best(candidates)
	if ok {
		logrus.WithField("page", pageURL).Debugf("picked %s (%dx%d)", best.URL, best.Size.Width, best.Size.Height)
	}

	return best, ok, nil
}
