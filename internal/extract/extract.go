// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract fetches an article page and derives its readable HTML
// fragment, retrying the fetch under alternate client identities when the
// site blocks the first one.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/pdiddy/feedbook/internal/httputil"
)

// DefaultUserAgents is the ordered client-identity fallback list. Identities
// are tried in order; the first one that yields a successful fetch and a
// non-empty extraction wins. There is no other retry policy.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"feedbook/0.1",
}

// Extract fetches articleURL and runs readability extraction over the
// response, keeping images and basic formatting and stripping document
// metadata. It returns the extracted HTML fragment, or an error when every
// identity in userAgents has been exhausted. The error is a per-article,
// non-fatal outcome: callers drop the article and continue the run.
func Extract(ctx context.Context, client *http.Client, articleURL string, userAgents []string) (string, error) {
	if len(userAgents) == 0 {
		userAgents = DefaultUserAgents
	}

	pageURL, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("invalid article URL %q: %w", articleURL, err)
	}

	var lastErr error
	for _, identity := range userAgents {
		resp, err := httputil.Get(ctx, client, articleURL, identity)
		if err != nil {
			lastErr = err
			continue
		}
		if !resp.OK() {
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
			continue
		}

		article, err := readability.FromReader(bytes.NewReader(resp.Body), pageURL)
		if err != nil {
			lastErr = fmt.Errorf("readability: %w", err)
			continue
		}
		if strings.TrimSpace(article.TextContent) == "" {
			lastErr = fmt.Errorf("extraction yielded no text")
			continue
		}

		return article.Content, nil
	}

	return "", fmt.Errorf("all %d identities exhausted for %s: %w", len(userAgents), articleURL, lastErr)
}
