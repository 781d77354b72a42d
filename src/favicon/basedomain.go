package favicon

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// BaseDomain retries the well-known paths on the registrable domain of the
// page, for sites that only serve their icon from the apex.
type BaseDomain struct {
	wellKnown *WellKnown
}

func NewBaseDomain(w *WellKnown) *BaseDomain {
	return &BaseDomain{wellKnown: w}
}

func (b *BaseDomain) Name() string {
	return "base-domain"
}

func (b *BaseDomain) Intercept(ctx context.Context, page *url.URL) []Candidate {
	base, ok := BaseHost(page.Hostname())
	if !ok {
		return nil
	}

	candidates, err := b.wellKnown.probe(ctx, &url.URL{Scheme: page.Scheme, Host: base})
	if err != nil {
		logrus.WithField("strategy", b.Name()).WithField("base", base).Debug(err)
	}

	return candidates
}

// BaseHost returns the registrable domain of host when it differs from host
// itself.
func BaseHost(host string) (string, bool) {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" || net.ParseIP(host) != nil {
		return "", false
	}

	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil || base == host {
		return "", false
	}

	return base, true
}
