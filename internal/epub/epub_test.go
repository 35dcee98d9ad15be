// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package epub

import (
	"archive/zip"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestBook(t *testing.T) *Book {
	t.Helper()
	b := New()
	b.Identifier = "feedbook-test-0001"
	b.Title = "Test Book"

	require.NoError(t, b.AddDocument("cover", "cover.xhtml", "<html><body>cover</body></html>"))
	require.NoError(t, b.AddDocument("toc", "toc.xhtml", "<html><body>toc</body></html>"))
	require.NoError(t, b.AddDocument("article_1", "text/article_1.xhtml", "<html><body>one</body></html>"))
	require.NoError(t, b.AddDocument("article_2", "text/article_2.xhtml", "<html><body>two</body></html>"))
	require.NoError(t, b.AddAsset("img-1", "images/chapter_1/abc123.png", "image/png", []byte("png-bytes")))
	b.AddMeta("cover", "img-1")
	require.NoError(t, b.SetSpine("cover", "toc", "article_1", "article_2"))
	b.SetNav([]NavPoint{
		{Title: "Cover", Path: "cover.xhtml"},
		{Title: "Table of Contents", Path: "toc.xhtml"},
		{Title: "One", Path: "text/article_1.xhtml"},
		{Title: "Two", Path: "text/article_2.xhtml"},
	})
	return b
}

func TestWriteAndReadPackage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "test.epub")
	require.NoError(t, buildTestBook(t).WriteFile(out))

	pkg, err := ReadPackage(out)
	require.NoError(t, err)

	assert.Equal(t, "feedbook-test-0001", pkg.Identifier)
	assert.Equal(t, "Test Book", pkg.Title)
	assert.Equal(t, "en", pkg.Language)

	// Round-trip: the spine read back matches the order that was set.
	assert.Equal(t, []string{"cover", "toc", "article_1", "article_2"}, pkg.Spine)

	assert.Equal(t, "text/article_1.xhtml", pkg.Manifest["article_1"])
	assert.Equal(t, "images/chapter_1/abc123.png", pkg.Manifest["img-1"])
	assert.Equal(t, "toc.ncx", pkg.Manifest["ncx"])
	assert.Equal(t, "img-1", pkg.Metas["cover"])
	assert.Equal(t, []string{"Cover", "Table of Contents", "One", "Two"}, pkg.NavTitles)
}

func TestContainerLayout(t *testing.T) {
	out := filepath.Join(t.TempDir(), "layout.epub")
	require.NoError(t, buildTestBook(t).WriteFile(out))

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	// The mimetype entry must be first and stored uncompressed.
	require.NotEmpty(t, zr.File)
	first := zr.File[0]
	assert.Equal(t, "mimetype", first.Name)
	assert.Equal(t, zip.Store, first.Method)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"META-INF/container.xml",
		"OEBPS/content.opf",
		"OEBPS/toc.ncx",
		"OEBPS/cover.xhtml",
		"OEBPS/text/article_1.xhtml",
		"OEBPS/images/chapter_1/abc123.png",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestBookValidation(t *testing.T) {
	t.Run("duplicate manifest id rejected", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddDocument("a", "a.xhtml", "x"))
		assert.Error(t, b.AddDocument("a", "b.xhtml", "x"))
	})

	t.Run("duplicate manifest path rejected", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddDocument("a", "a.xhtml", "x"))
		assert.Error(t, b.AddDocument("b", "a.xhtml", "x"))
		assert.True(t, b.HasPath("a.xhtml"))
		assert.False(t, b.HasPath("b.xhtml"))
	})

	t.Run("reserved ncx id rejected", func(t *testing.T) {
		b := New()
		assert.Error(t, b.AddDocument("ncx", "n.xhtml", "x"))
	})

	t.Run("spine with unknown id rejected", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddDocument("a", "a.xhtml", "x"))
		assert.Error(t, b.SetSpine("a", "ghost"))
	})

	t.Run("write without identifier fails", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddDocument("a", "a.xhtml", "x"))
		require.NoError(t, b.SetSpine("a"))
		err := b.WriteFile(filepath.Join(t.TempDir(), "x.epub"))
		assert.Error(t, err)
	})

	t.Run("write with empty spine fails", func(t *testing.T) {
		b := New()
		b.Identifier = "id"
		b.Title = "t"
		err := b.WriteFile(filepath.Join(t.TempDir(), "x.epub"))
		assert.Error(t, err)
	})
}
