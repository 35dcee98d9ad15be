// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package book composes the final e-book: it wraps extracted fragments
// into chapter documents and assembles cover, table of contents, legacy
// navigation, and spine around them.
package book

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/feedbook/internal/epub"
	"github.com/pdiddy/feedbook/pkg/types"
)

const (
	coverDocID   = "cover"
	coverImageID = "cover-img"
	tocDocID     = "toc"

	bookTitle = "Read Later Articles"
)

// NewChapter wraps an extracted, image-resolved fragment into a chapter
// record with a title heading and a deterministic document path. Pure;
// performs no I/O.
func NewChapter(index int, title, fragment string) types.Chapter {
	return types.Chapter{
		Index: index,
		Title: title,
		Path:  fmt.Sprintf("text/article_%d.xhtml", index+1),
		Body:  fmt.Sprintf("<h1>%s</h1>\n%s", html.EscapeString(title), fragment),
	}
}

// Assembler owns the single book instance. Workers never touch it;
// chapters and assets are merged in one single-threaded finalize phase
// after all workers have completed.
type Assembler struct {
	book *epub.Book
}

// NewAssembler initializes a book with a unique per-run identifier and a
// date-stamped title.
func NewAssembler(now time.Time) *Assembler {
	b := epub.New()
	b.Identifier = fmt.Sprintf("feedbook-%s-%s",
		now.Format("20060102150405"), uuid.NewString()[:8])
	b.Title = fmt.Sprintf("%s - %s", bookTitle, now.Format("2006-01-02"))
	return &Assembler{book: b}
}

// Identifier returns the generated book identifier.
func (a *Assembler) Identifier() string { return a.book.Identifier }

// Title returns the date-stamped book title.
func (a *Assembler) Title() string { return a.book.Title }

// AddCover embeds the vector logo and the cover document, and registers
// the cover metadata entry linking the two.
func (a *Assembler) AddCover(now time.Time) error {
	if err := a.book.AddAsset(coverImageID, "images/cover.svg", "image/svg+xml", []byte(coverLogoSVG)); err != nil {
		return fmt.Errorf("add cover image: %w", err)
	}
	if err := a.book.AddDocument(coverDocID, "cover.xhtml", coverDocument(now)); err != nil {
		return fmt.Errorf("add cover page: %w", err)
	}
	a.book.AddMeta("cover", coverImageID)
	return nil
}

// AddChapter appends a chapter document to the manifest. Ordering is the
// caller's responsibility; the manifest itself is unordered.
func (a *Assembler) AddChapter(ch types.Chapter) error {
	if err := a.book.AddDocument(chapterID(ch), ch.Path, documentShell(ch.Title, ch.Body)); err != nil {
		return fmt.Errorf("add chapter %d: %w", ch.Index, err)
	}
	return nil
}

// AddAssets registers chapter-scoped image assets, skipping paths already
// present in the book.
func (a *Assembler) AddAssets(assets []types.ImageAsset) error {
	for _, asset := range assets {
		if a.book.HasPath(asset.Path) {
			continue
		}
		if err := a.book.AddAsset(assetID(asset.Path), asset.Path, asset.MediaType, asset.Data); err != nil {
			return fmt.Errorf("add image %s: %w", asset.SourceURL, err)
		}
	}
	return nil
}

// Finalize builds the table of contents and navigation for the given
// chapter order, sets the spine to [cover, toc, chapters...], and writes
// the package to outPath. Chapters must already be registered via
// AddChapter, in any order.
func (a *Assembler) Finalize(chapters []types.Chapter, outPath string) (string, error) {
	if err := a.book.AddDocument(tocDocID, "toc.xhtml", tocDocument(chapters)); err != nil {
		return "", fmt.Errorf("add table of contents: %w", err)
	}

	nav := []epub.NavPoint{
		{Title: "Cover", Path: "cover.xhtml"},
		{Title: "Table of Contents", Path: "toc.xhtml"},
	}
	spine := []string{coverDocID, tocDocID}
	for _, ch := range chapters {
		nav = append(nav, epub.NavPoint{Title: ch.Title, Path: ch.Path})
		spine = append(spine, chapterID(ch))
	}
	a.book.SetNav(nav)
	if err := a.book.SetSpine(spine...); err != nil {
		return "", err
	}

	if err := a.book.WriteFile(outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

func chapterID(ch types.Chapter) string {
	return fmt.Sprintf("article_%d", ch.Index+1)
}

// assetID derives a manifest id from a storage path.
func assetID(p string) string {
	return "img-" + strings.NewReplacer("/", "-", ".", "-").Replace(p)
}

// documentShell wraps a body fragment in a complete XHTML document.
func documentShell(title, body string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`, html.EscapeString(title), body)
}

// tocDocument lists every chapter by title, linked by document path, in
// the given order under a single "Articles" section.
func tocDocument(chapters []types.Chapter) string {
	var sb strings.Builder
	sb.WriteString("<h1>Articles</h1>\n<ul>\n")
	for _, ch := range chapters {
		fmt.Fprintf(&sb, "<li><a href=\"%s\">%s</a></li>\n",
			html.EscapeString(ch.Path), html.EscapeString(ch.Title))
	}
	sb.WriteString("</ul>")
	return documentShell("Table of Contents", sb.String())
}

// coverDocument centers the logo over the fixed title and compilation date.
func coverDocument(now time.Time) string {
	body := fmt.Sprintf(`<div style="text-align: center; margin-top: 20%%;">
<img src="images/cover.svg" alt="feedbook logo" style="max-width: 40%%;"/>
<h1>%s</h1>
<p>Compiled %s</p>
</div>`, bookTitle, now.Format("2006-01-02"))
	return documentShell(bookTitle, body)
}

// coverLogoSVG is the embedded vector logo shown on the cover page.
const coverLogoSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="240" height="240" viewBox="0 0 64 64">
  <rect x="10" y="8" width="44" height="48" rx="4" fill="#2c3e50"/>
  <rect x="14" y="8" width="4" height="48" fill="#1a252f"/>
  <rect x="22" y="16" width="26" height="3" rx="1.5" fill="#ecf0f1"/>
  <rect x="22" y="23" width="26" height="3" rx="1.5" fill="#95a5a6"/>
  <rect x="22" y="30" width="26" height="3" rx="1.5" fill="#95a5a6"/>
  <rect x="22" y="37" width="18" height="3" rx="1.5" fill="#95a5a6"/>
  <circle cx="46" cy="46" r="9" fill="#e67e22"/>
  <path d="M42 46h8M46 42v8" stroke="#fff" stroke-width="2" stroke-linecap="round"/>
</svg>
`
