package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Transport fetches a url. Implementations must abort the request when ctx
// is done and close nothing on behalf of the caller: Body is the caller's.
type Transport interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

type Response struct {
	// URL is the final location after redirects.
	URL        *url.URL
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d from %s", e.StatusCode, e.URL)
}
