package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxBodySize = 2 << 20
	DefaultUserAgent   = "Mozilla/5.0 (compatible; IconProcessor/1.0)"
)

// ErrBodyTooLarge is returned by a response body once it runs past the
// configured size limit.
var ErrBodyTooLarge = errors.New("response body too large")

type HTTP struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

type Options struct {
	Timeout     time.Duration
	UserAgent   string
	MaxBodySize int64
}

func NewHTTP(opts Options) *HTTP {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}

	return &HTTP{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent:   opts.UserAgent,
		maxBodySize: opts.MaxBodySize,
	}
}

func (h *HTTP) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,image/*;q=0.9,*/*;q=0.8")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return &Response{
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body: &limitedBody{
			Reader: io.LimitReader(resp.Body, h.maxBodySize+1),
			Closer: resp.Body,
			limit:  h.maxBodySize,
		},
	}, nil
}

// limitedBody hands out at most limit bytes and fails instead of silently
// truncating longer bodies.
type limitedBody struct {
	io.Reader
	io.Closer
	limit int64
	read  int64
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	b.read += int64(n)
	if b.read > b.limit {
		n -= int(b.read - b.limit)
		if n < 0 {
			n = 0
		}
		return n, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, b.limit)
	}
	return n, err
}
