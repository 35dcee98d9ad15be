// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed fetches the read-later feed and normalizes its entries.
package feed

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/feedbook/pkg/types"
)

// untitled is the title given to entries whose feed omitted one.
const untitled = "Untitled"

// FeedError reports a fatal problem with the source feed itself: an
// invalid URL, a parse failure, or a feed with zero entries. Feed failures
// abort the whole conversion before any article fetch is attempted.
type FeedError struct {
	URL string
	Err error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %q: %v", e.URL, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// Fetch retrieves the feed at feedURL and returns up to maxItems entries in
// source order. maxItems <= 0 means the full feed. Missing entry fields
// default to placeholder values so downstream stages never see nil.
func Fetch(client *http.Client, feedURL, userAgent string, maxItems int) ([]types.FeedItem, error) {
	if feedURL == "" {
		return nil, &FeedError{URL: feedURL, Err: fmt.Errorf("empty URL")}
	}
	u, err := url.Parse(feedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &FeedError{URL: feedURL, Err: fmt.Errorf("not a valid address")}
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	parsed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, &FeedError{URL: feedURL, Err: fmt.Errorf("parse: %w", err)}
	}
	if len(parsed.Items) == 0 {
		return nil, &FeedError{URL: feedURL, Err: fmt.Errorf("no items found in the feed")}
	}

	entries := parsed.Items
	if maxItems > 0 && len(entries) > maxItems {
		entries = entries[:maxItems]
	}

	items := make([]types.FeedItem, 0, len(entries))
	for _, entry := range entries {
		item := types.FeedItem{
			Title:     entry.Title,
			Link:      entry.Link,
			Summary:   entry.Description,
			Published: entry.Published,
		}
		if item.Title == "" {
			item.Title = untitled
		}
		items = append(items, item)
	}

	return items, nil
}
