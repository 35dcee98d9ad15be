// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives the conversion pipeline: it fans feed items out
// to a bounded worker pool for extraction, image resolution, and chapter
// construction, restores original feed order, and hands the result to the
// book assembler.
package convert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/feedbook/internal/book"
	"github.com/pdiddy/feedbook/internal/extract"
	"github.com/pdiddy/feedbook/internal/feed"
	"github.com/pdiddy/feedbook/internal/httputil"
	"github.com/pdiddy/feedbook/internal/images"
	"github.com/pdiddy/feedbook/pkg/types"
)

// BatchResult holds the outcome of one conversion run.
type BatchResult struct {
	Built   int
	Skipped int

	// OutputPath is where the book was written.
	OutputPath string

	// Statuses records every item's outcome in original feed order.
	Statuses []types.ItemStatus
}

// Total returns the number of feed items processed.
func (r BatchResult) Total() int {
	return r.Built + r.Skipped
}

// job is one unit of work: a single feed item, tagged with its source
// index so completion order never matters.
type job struct {
	index int
	item  types.FeedItem
}

// unitResult is a worker's private partial result. Nothing is merged into
// the shared book until the single-threaded finalize step.
type unitResult struct {
	chapter  types.Chapter
	assets   []types.ImageAsset
	status   types.ItemStatus
	warnings []string
	ok       bool
}

// Run executes the full pipeline: fetch the feed, convert each item in a
// pool of cfg.Convert.GetWorkers() workers, reorder, and write the book to
// cfg.Convert.OutputPath. Feed failures are fatal; per-item failures only
// drop that item. Progress and warnings go to w.
func Run(ctx context.Context, feedURL string, cfg types.PipelineConfig, w io.Writer) (BatchResult, error) {
	feedClient := httputil.NewClient(cfg.Feed.GetTimeout())

	fmt.Fprintf(w, "fetching feed: %s\n", feedURL)
	items, err := feed.Fetch(feedClient, feedURL, cfg.Feed.UserAgent, cfg.Feed.MaxItems)
	if err != nil {
		return BatchResult{}, err
	}
	fmt.Fprintf(w, "found %d item(s)\n", len(items))

	results := runPool(ctx, items, cfg, w)

	// Restore deterministic original-feed order before assembly.
	sort.Slice(results, func(i, j int) bool {
		return results[i].status.Index < results[j].status.Index
	})

	var (
		chapters []types.Chapter
		statuses = make([]types.ItemStatus, 0, len(results))
		result   BatchResult
	)
	for _, res := range results {
		statuses = append(statuses, res.status)
		if res.ok {
			chapters = append(chapters, res.chapter)
			result.Built++
		} else {
			result.Skipped++
		}
	}
	result.Statuses = statuses

	now := time.Now()
	asm := book.NewAssembler(now)
	if err := asm.AddCover(now); err != nil {
		return result, err
	}
	for _, res := range results {
		if !res.ok {
			continue
		}
		if err := asm.AddChapter(res.chapter); err != nil {
			return result, err
		}
		if err := asm.AddAssets(res.assets); err != nil {
			return result, err
		}
	}

	fmt.Fprintf(w, "writing book to %s\n", cfg.Convert.OutputPath)
	outPath, err := asm.Finalize(chapters, cfg.Convert.OutputPath)
	if err != nil {
		return result, fmt.Errorf("assembling book: %w", err)
	}
	result.OutputPath = outPath

	fmt.Fprintf(w, "\nBatch summary: %d built, %d skipped (total: %d)\n",
		result.Built, result.Skipped, result.Total())

	if cfg.Convert.ReportPath != "" {
		if err := WriteReport(cfg.Convert.ReportPath, result); err != nil {
			fmt.Fprintf(w, "warning: could not write report: %v\n", err)
		}
	}

	return result, nil
}

// runPool executes one unit of work per feed item on a fixed-width pool.
// Width 1 degenerates to sequential execution through the same code path.
// Per-item status lines are printed from the collector, in completion
// order, so workers never share the writer.
func runPool(ctx context.Context, items []types.FeedItem, cfg types.PipelineConfig, w io.Writer) []unitResult {
	workers := cfg.Convert.GetWorkers()
	if workers > len(items) {
		workers = len(items)
	}

	extractClient := httputil.NewClient(cfg.Extract.GetTimeout())
	resolver := &images.Resolver{
		Client:    httputil.NewClient(cfg.Images.GetTimeout()),
		UserAgent: extract.DefaultUserAgents[0],
	}

	jobs := make(chan job)
	out := make(chan unitResult, len(items))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out <- runUnit(ctx, j, extractClient, resolver, cfg)
			}
		}()
	}

	go func() {
		for i, item := range items {
			jobs <- job{index: i, item: item}
		}
		close(jobs)
		wg.Wait()
		close(out)
	}()

	results := make([]unitResult, 0, len(items))
	for res := range out {
		for _, warn := range res.warnings {
			fmt.Fprintf(w, "warning: item %d: %s\n", res.status.Index+1, warn)
		}
		switch res.status.Outcome {
		case types.OutcomeBuilt:
			fmt.Fprintf(w, "built:   %s\n", res.status.Title)
		default:
			fmt.Fprintf(w, "skipped: %s (%s)\n", res.status.Title, res.status.Reason)
		}
		results = append(results, res)
	}
	return results
}

// runUnit processes one feed item end to end: extraction, image
// resolution, chapter construction. Failures degrade to a skip status.
func runUnit(ctx context.Context, j job, client *http.Client, resolver *images.Resolver, cfg types.PipelineConfig) unitResult {
	status := types.ItemStatus{
		Index: j.index,
		Title: j.item.Title,
		Link:  j.item.Link,
	}

	if j.item.Link == "" {
		status.Outcome = types.OutcomeNoLink
		status.Reason = "feed entry has no link"
		return unitResult{status: status}
	}

	fragment, err := extract.Extract(ctx, client, j.item.Link, cfg.Extract.UserAgents)
	if err != nil {
		status.Outcome = types.OutcomeNoContent
		status.Reason = err.Error()
		return unitResult{status: status}
	}

	scope := fmt.Sprintf("chapter_%d", j.index+1)
	resolved, assets, warnings := resolver.Rewrite(ctx, fragment, scope, j.item.Link)

	status.Outcome = types.OutcomeBuilt
	return unitResult{
		chapter:  book.NewChapter(j.index, j.item.Title, resolved),
		assets:   assets,
		status:   status,
		warnings: warnings,
		ok:       true,
	}
}
