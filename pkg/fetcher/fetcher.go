package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// ErrBadStatus is returned for any non-200 response.
var ErrBadStatus = errors.New("unexpected HTTP status")

type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// NewFetcherWithClient lets callers (and tests) supply their own client.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Response is a fetched corpus body with its declared media type.
type Response struct {
	Body      []byte
	MediaType string
}

// IsHTML reports whether the server declared an HTML body.
func (r *Response) IsHTML() bool {
	return r.MediaType == "text/html" || r.MediaType == "application/xhtml+xml"
}

// Get downloads url and returns its body.
func (f *Fetcher) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d fetching %s", ErrBadStatus, resp.StatusCode, url)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return &Response{Body: bodyBytes, MediaType: mediaType}, nil
}
