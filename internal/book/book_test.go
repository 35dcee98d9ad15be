// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package book

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/feedbook/internal/epub"
	"github.com/pdiddy/feedbook/pkg/types"
)

var testNow = time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)

func TestNewChapter(t *testing.T) {
	ch := NewChapter(0, "Hello & Goodbye", "<p>content</p>")

	assert.Equal(t, 0, ch.Index)
	assert.Equal(t, "text/article_1.xhtml", ch.Path)
	assert.Contains(t, ch.Body, "<h1>Hello &amp; Goodbye</h1>")
	assert.Contains(t, ch.Body, "<p>content</p>")

	assert.Equal(t, "text/article_7.xhtml", NewChapter(6, "t", "b").Path)
}

func TestAssemblerIdentity(t *testing.T) {
	a := NewAssembler(testNow)
	b := NewAssembler(testNow)

	assert.Contains(t, a.Identifier(), "feedbook-20260828150405-")
	assert.NotEqual(t, a.Identifier(), b.Identifier(), "identifier must be unique per run")
	assert.Equal(t, "Read Later Articles - 2026-08-28", a.Title())
}

func assembleBook(t *testing.T, chapters []types.Chapter, assets []types.ImageAsset) string {
	t.Helper()
	a := NewAssembler(testNow)
	require.NoError(t, a.AddCover(testNow))
	for _, ch := range chapters {
		require.NoError(t, a.AddChapter(ch))
	}
	require.NoError(t, a.AddAssets(assets))

	out := filepath.Join(t.TempDir(), "book.epub")
	got, err := a.Finalize(chapters, out)
	require.NoError(t, err)
	require.Equal(t, out, got)
	return out
}

func TestAssembleSpineInvariant(t *testing.T) {
	chapters := []types.Chapter{
		NewChapter(0, "First", "<p>one</p>"),
		NewChapter(1, "Second", "<p>two</p>"),
		NewChapter(2, "Third", "<p>three</p>"),
	}
	out := assembleBook(t, chapters, nil)

	pkg, err := epub.ReadPackage(out)
	require.NoError(t, err)

	// Spine: cover first, TOC second, then chapters in order.
	assert.Equal(t, []string{"cover", "toc", "article_1", "article_2", "article_3"}, pkg.Spine)
	assert.Equal(t, "cover-img", pkg.Metas["cover"])
	assert.Equal(t, "images/cover.svg", pkg.Manifest["cover-img"])
	assert.Equal(t, []string{"Cover", "Table of Contents", "First", "Second", "Third"}, pkg.NavTitles)
}

func TestAssembleAssets(t *testing.T) {
	chapters := []types.Chapter{NewChapter(0, "Pics", `<p><img src="../images/chapter_1/aa.png"/></p>`)}
	assets := []types.ImageAsset{
		{SourceURL: "http://x/a.png", Scope: "chapter_1", Path: "images/chapter_1/aa.png", MediaType: "image/png", Data: []byte("png")},
		// Same path twice: merged silently.
		{SourceURL: "http://x/a.png", Scope: "chapter_1", Path: "images/chapter_1/aa.png", MediaType: "image/png", Data: []byte("png")},
	}
	out := assembleBook(t, chapters, assets)

	pkg, err := epub.ReadPackage(out)
	require.NoError(t, err)
	assert.Equal(t, "images/chapter_1/aa.png", pkg.Manifest["img-images-chapter_1-aa-png"])
}

func TestTocDocument(t *testing.T) {
	doc := tocDocument([]types.Chapter{
		NewChapter(0, "A & B", "x"),
		NewChapter(1, "C", "x"),
	})
	assert.Contains(t, doc, "<h1>Articles</h1>")
	assert.Contains(t, doc, `<a href="text/article_1.xhtml">A &amp; B</a>`)
	assert.Contains(t, doc, `<a href="text/article_2.xhtml">C</a>`)
}
