package favicon

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/seventv/IconProcessor/src/image"
	"github.com/seventv/IconProcessor/src/transport"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"
)

var iconRels = map[string]bool{
	"icon":                         true,
	"apple-touch-icon":             true,
	"apple-touch-icon-precomposed": true,
	"fluid-icon":                   true,
	"mask-icon":                    true,
}

// Tags reads the icon declarations from the page head.
type Tags struct {
	transport   transport.Transport
	prober      *Prober
	concurrency int
}

func NewTags(t transport.Transport, p *Prober, concurrency int) *Tags {
	if concurrency <= 0 {
		concurrency = DefaultProbeConcurrency
	}

	return &Tags{
		transport:   t,
		prober:      p,
		concurrency: concurrency,
	}
}

func (t *Tags) Name() string {
	return "tags"
}

func (t *Tags) Intercept(ctx context.Context, page *url.URL) []Candidate {
	log := logrus.WithField("strategy", t.Name()).WithField("page", page.String())

	resp, err := t.transport.Fetch(ctx, page.String())
	if err != nil {
		log.Debug(err)
		return nil
	}
	defer resp.Body.Close()

	base := page
	if resp.URL != nil {
		base = resp.URL
	}

	refs := ParseLinks(resp.Body, base)
	found := make([]*Candidate, len(refs))
	errs := make([]error, len(refs))

	g := errgroup.Group{}
	g.SetLimit(t.concurrency)

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			c, err := t.prober.Probe(ctx, ref.URL)
			if err != nil {
				errs[i] = err
				return nil
			}

			c.URL = ref.URL
			// raster payloads report their real size, an svg renders at
			// whatever size the markup declares for it
			if c.Type == image.SVG && ref.Hint.Area() > 0 {
				c.Size = ref.Hint
			}
			found[i] = &c
			return nil
		})
	}
	_ = g.Wait()

	candidates := []Candidate{}
	for i := range refs {
		if found[i] != nil {
			candidates = append(candidates, *found[i])
		}
		err = multierror.Append(err, errs[i]).ErrorOrNil()
	}
	if err != nil {
		log.Debug(err)
	}

	return candidates
}

// Reference is an icon declared by the page markup. A zero Hint means the
// markup gave no usable size.
type Reference struct {
	URL  string
	Hint image.Size
}

// ParseLinks collects icon references from the document head, resolved
// against base (or the document's own <base href>). Duplicate urls are
// merged keeping the first position and the largest hint.
func ParseLinks(r io.Reader, base *url.URL) []Reference {
	var (
		refs    []Reference
		index   = map[string]int{}
		baseSet bool
	)

	add := func(href string, hint image.Size) {
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		u, ok := resolve(base, href)
		if !ok {
			return
		}

		key := u.String()
		if i, ok := index[key]; ok {
			if hint.Area() > refs[i].Hint.Area() {
				refs[i].Hint = hint
			}
			return
		}

		index[key] = len(refs)
		refs = append(refs, Reference{URL: key, Hint: hint})
	}

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return refs
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Head {
				return refs
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Body:
				return refs
			case atom.Base:
				if href := attr(tok, "href"); href != "" && !baseSet {
					if u, err := base.Parse(href); err == nil {
						base = u
						baseSet = true
					}
				}
			case atom.Link:
				if isIconRel(attr(tok, "rel")) {
					add(attr(tok, "href"), ParseSizes(attr(tok, "sizes")))
				}
			case atom.Meta:
				if strings.EqualFold(attr(tok, "name"), "msapplication-TileImage") {
					add(attr(tok, "content"), image.Size{})
				}
			}
		}
	}
}

func isIconRel(rel string) bool {
	for _, v := range strings.Fields(strings.ToLower(rel)) {
		if iconRels[v] {
			return true
		}
	}
	return false
}

// ParseSizes returns the largest WxH entry of a sizes attribute. "any" and
// malformed entries are ignored.
func ParseSizes(v string) image.Size {
	var best image.Size
	for _, f := range strings.Fields(strings.ToLower(v)) {
		w, h, ok := strings.Cut(f, "x")
		if !ok {
			continue
		}

		width, err := strconv.Atoi(w)
		if err != nil {
			continue
		}
		height, err := strconv.Atoi(h)
		if err != nil {
			continue
		}

		size := image.Size{Width: width, Height: height}
		if size.Area() > best.Area() {
			best = size
		}
	}

	return best
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
