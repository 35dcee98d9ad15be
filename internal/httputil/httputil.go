// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxBodySize caps how much of a response body is read (10 MiB). Articles
// and images beyond this are treated as fetch failures.
const MaxBodySize int64 = 10 << 20

// Response holds the parts of an HTTP response the pipeline cares about.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the response status is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewClient returns an HTTP client with the given overall request timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// Get issues a GET for rawURL under the given client identity and returns
// the status, content type, and body. Non-2xx responses are returned, not
// errors; the caller decides whether to fall back to another identity.
func Get(ctx context.Context, client *http.Client, rawURL, userAgent string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}
	if int64(len(body)) > MaxBodySize {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", rawURL, MaxBodySize)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
