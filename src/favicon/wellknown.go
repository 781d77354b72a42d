package favicon

import (
	"context"
	"net/url"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// WellKnown probes conventional icon paths at the page origin.
type WellKnown struct {
	prober      *Prober
	paths       []string
	concurrency int
}

func NewWellKnown(p *Prober, paths []string, concurrency int) *WellKnown {
	if len(paths) == 0 {
		paths = DefaultWellKnownPaths
	}
	if concurrency <= 0 {
		concurrency = DefaultProbeConcurrency
	}

	return &WellKnown{
		prober:      p,
		paths:       paths,
		concurrency: concurrency,
	}
}

func (w *WellKnown) Name() string {
	return "well-known"
}

func (w *WellKnown) Intercept(ctx context.Context, page *url.URL) []Candidate {
	candidates, err := w.probe(ctx, &url.URL{Scheme: page.Scheme, Host: page.Host})
	if err != nil {
		logrus.WithField("strategy", w.Name()).WithField("page", page.String()).Debug(err)
	}

	return candidates
}

// probe checks every path against origin. Candidates keep path order
// whatever order the probes finish in.
func (w *WellKnown) probe(ctx context.Context, origin *url.URL) ([]Candidate, error) {
	found := make([]*Candidate, len(w.paths))
	errs := make([]error, len(w.paths))

	g := errgroup.Group{}
	g.SetLimit(w.concurrency)

	for i, p := range w.paths {
		i, target := i, origin.ResolveReference(&url.URL{Path: p}).String()
		g.Go(func() error {
			c, err := w.prober.Probe(ctx, target)
			if err != nil {
				errs[i] = err
				return nil
			}

			found[i] = &c
			return nil
		})
	}
	_ = g.Wait()

	var err error
	candidates := []Candidate{}
	for i := range w.paths {
		if found[i] != nil {
			candidates = append(candidates, *found[i])
		}
		err = multierror.Append(err, errs[i]).ErrorOrNil()
	}

	return candidates, err
}
