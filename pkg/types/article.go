// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared across pipeline stages and the
// per-stage configuration structures.
package types

// FeedItem is one saved-article record as published by the source feed.
// Created once per run by the feed stage and never mutated afterward.
type FeedItem struct {
	// Title is the article title, "Untitled" when the feed omitted it.
	Title string `json:"title" yaml:"title"`

	// Link is the article URL. Empty when the feed entry carried none;
	// such items are skipped with a recorded reason, never followed.
	Link string `json:"link" yaml:"link"`

	// Summary is the feed-provided description, possibly empty.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Published is the feed-provided publish date string, possibly empty.
	Published string `json:"published,omitempty" yaml:"published,omitempty"`
}

// Chapter is one article rendered as a self-contained document inside the
// book. Index is the article's position in the source feed; the final
// package orders chapters by Index ascending regardless of the order in
// which workers complete.
type Chapter struct {
	// Index is the zero-based original feed position.
	Index int

	// Title is the chapter heading and TOC label.
	Title string

	// Path is the document path inside the package, e.g. "text/article_1.xhtml".
	Path string

	// Body is the chapter body fragment (heading plus extracted content).
	Body string
}

// ImageAsset is one downloaded, deduplicated image belonging to a chapter.
// Two references to the same source URL within one chapter scope resolve to
// a single asset.
type ImageAsset struct {
	// SourceURL is the absolute URL the image was downloaded from.
	SourceURL string

	// Scope is the chapter scope the asset belongs to, e.g. "chapter_1".
	Scope string

	// Path is the package-local storage path,
	// "images/<scope>/<hash>.<ext>".
	Path string

	// MediaType is the MIME type reported by the server.
	MediaType string

	// Data holds the raw image bytes.
	Data []byte
}

// Outcome classifies how one feed item fared in the pipeline.
type Outcome string

const (
	// OutcomeBuilt means the item became a chapter in the book.
	OutcomeBuilt Outcome = "built"

	// OutcomeNoLink means the feed entry carried no article URL.
	OutcomeNoLink Outcome = "skipped-no-link"

	// OutcomeNoContent means every client identity was exhausted without
	// a successful extraction.
	OutcomeNoContent Outcome = "skipped-no-content"
)

// ItemStatus records the outcome of one feed item with its reason, so no
// item is ever dropped without a recorded cause.
type ItemStatus struct {
	// Index is the zero-based original feed position.
	Index int `json:"index" yaml:"index"`

	// Title is the feed item title.
	Title string `json:"title" yaml:"title"`

	// Link is the article URL the pipeline attempted, if any.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`

	// Outcome classifies the result.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Reason elaborates on skips, e.g. the last fetch error. Empty for
	// built items.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}
