// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package epub writes EPUB2-compatible book containers: an OCF zip with a
// stored mimetype entry, an OPF package document carrying metadata,
// manifest, and spine, and an NCX navigation document for older readers.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
)

const (
	containerMIME = "application/epub+zip"
	mimetypePath  = "mimetype"
	containerPath = "META-INF/container.xml"
	contentRoot   = "OEBPS/"
	opfName       = "content.opf"
	ncxName       = "toc.ncx"
	ncxID         = "ncx"

	// MediaTypeXHTML is the manifest media type for document items.
	MediaTypeXHTML = "application/xhtml+xml"
)

// Item is one manifest entry: a document or binary asset stored under the
// content root.
type Item struct {
	ID        string
	Path      string
	MediaType string
	Data      []byte
}

// NavPoint is one entry of the NCX navigation map, in reading order.
type NavPoint struct {
	Title string
	Path  string
}

// Book accumulates the state of one package and writes it in a single
// shot. It performs no I/O until WriteFile.
type Book struct {
	Identifier string
	Title      string
	Language   string

	items []Item
	ids   map[string]bool
	paths map[string]bool
	metas [][2]string
	spine []string
	nav   []NavPoint
}

// New returns an empty book with language "en".
func New() *Book {
	return &Book{
		Language: "en",
		ids:      make(map[string]bool),
		paths:    make(map[string]bool),
	}
}

// AddDocument registers an XHTML document in the manifest.
func (b *Book) AddDocument(id, docPath, content string) error {
	return b.add(Item{ID: id, Path: docPath, MediaType: MediaTypeXHTML, Data: []byte(content)})
}

// AddAsset registers a binary asset (image, stylesheet) in the manifest.
func (b *Book) AddAsset(id, assetPath, mediaType string, data []byte) error {
	return b.add(Item{ID: id, Path: assetPath, MediaType: mediaType, Data: data})
}

func (b *Book) add(item Item) error {
	if item.ID == "" || item.Path == "" {
		return fmt.Errorf("manifest item needs both an id and a path")
	}
	if item.ID == ncxID {
		return fmt.Errorf("manifest id %q is reserved", ncxID)
	}
	if b.ids[item.ID] {
		return fmt.Errorf("duplicate manifest id %q", item.ID)
	}
	if b.paths[item.Path] {
		return fmt.Errorf("duplicate manifest path %q", item.Path)
	}
	b.ids[item.ID] = true
	b.paths[item.Path] = true
	b.items = append(b.items, item)
	return nil
}

// HasPath reports whether an item with this path is already registered.
func (b *Book) HasPath(p string) bool { return b.paths[p] }

// AddMeta appends an arbitrary metadata entry, e.g. {"cover", "cover-img"}.
func (b *Book) AddMeta(name, content string) {
	b.metas = append(b.metas, [2]string{name, content})
}

// SetSpine sets the reading order. Every id must be a registered document.
func (b *Book) SetSpine(ids ...string) error {
	for _, id := range ids {
		if !b.ids[id] {
			return fmt.Errorf("spine references unknown manifest id %q", id)
		}
	}
	b.spine = ids
	return nil
}

// SetNav sets the NCX navigation map.
func (b *Book) SetNav(points []NavPoint) {
	b.nav = points
}

// WriteFile serializes the complete container to outPath. The mimetype
// entry is written first and uncompressed, as the container format requires.
func (b *Book) WriteFile(outPath string) error {
	if b.Identifier == "" || b.Title == "" {
		return fmt.Errorf("book needs an identifier and a title before writing")
	}
	if len(b.spine) == 0 {
		return fmt.Errorf("book has an empty spine")
	}

	opf, err := b.opfXML()
	if err != nil {
		return fmt.Errorf("build package document: %w", err)
	}
	ncx, err := b.ncxXML()
	if err != nil {
		return fmt.Errorf("build navigation document: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	mw, err := zw.CreateHeader(&zip.FileHeader{Name: mimetypePath, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("write mimetype: %w", err)
	}
	if _, err := mw.Write([]byte(containerMIME)); err != nil {
		return fmt.Errorf("write mimetype: %w", err)
	}

	entries := []struct {
		name string
		data []byte
	}{
		{containerPath, []byte(containerXML)},
		{contentRoot + opfName, opf},
		{contentRoot + ncxName, ncx},
	}
	for _, item := range b.items {
		entries = append(entries, struct {
			name string
			data []byte
		}{contentRoot + item.Path, item.Data})
	}

	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("write %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return fmt.Errorf("write %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish container: %w", err)
	}
	return f.Close()
}

const containerXML = xml.Header + `<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

type opfIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type opfMetadata struct {
	XmlnsDC    string        `xml:"xmlns:dc,attr"`
	Identifier opfIdentifier `xml:"dc:identifier"`
	Title      string        `xml:"dc:title"`
	Language   string        `xml:"dc:language"`
	Metas      []opfMeta     `xml:"meta"`
}

type opfItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfItemref struct {
	IDref string `xml:"idref,attr"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	Itemrefs []opfItemref `xml:"itemref"`
}

type opfPackage struct {
	XMLName  xml.Name `xml:"package"`
	Xmlns    string   `xml:"xmlns,attr"`
	Version  string   `xml:"version,attr"`
	UniqueID string   `xml:"unique-identifier,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest struct {
		Items []opfItem `xml:"item"`
	} `xml:"manifest"`
	Spine opfSpine `xml:"spine"`
}

func (b *Book) opfXML() ([]byte, error) {
	pkg := opfPackage{
		Xmlns:    "http://www.idpf.org/2007/opf",
		Version:  "2.0",
		UniqueID: "BookId",
		Metadata: opfMetadata{
			XmlnsDC:    "http://purl.org/dc/elements/1.1/",
			Identifier: opfIdentifier{ID: "BookId", Value: b.Identifier},
			Title:      b.Title,
			Language:   b.Language,
		},
		Spine: opfSpine{Toc: ncxID},
	}
	for _, m := range b.metas {
		pkg.Metadata.Metas = append(pkg.Metadata.Metas, opfMeta{Name: m[0], Content: m[1]})
	}

	pkg.Manifest.Items = append(pkg.Manifest.Items,
		opfItem{ID: ncxID, Href: ncxName, MediaType: "application/x-dtbncx+xml"})
	for _, item := range b.items {
		pkg.Manifest.Items = append(pkg.Manifest.Items,
			opfItem{ID: item.ID, Href: item.Path, MediaType: item.MediaType})
	}

	for _, id := range b.spine {
		pkg.Spine.Itemrefs = append(pkg.Spine.Itemrefs, opfItemref{IDref: id})
	}

	out, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

type ncxText struct {
	Text string `xml:"text"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

type ncxNavPoint struct {
	ID        string     `xml:"id,attr"`
	PlayOrder int        `xml:"playOrder,attr"`
	Label     ncxText    `xml:"navLabel"`
	Content   ncxContent `xml:"content"`
}

type ncxRoot struct {
	XMLName  xml.Name `xml:"ncx"`
	Xmlns    string   `xml:"xmlns,attr"`
	Version  string   `xml:"version,attr"`
	Metas    []opfMeta `xml:"head>meta"`
	DocTitle ncxText   `xml:"docTitle"`
	NavMap   struct {
		Points []ncxNavPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

func (b *Book) ncxXML() ([]byte, error) {
	root := ncxRoot{
		Xmlns:   "http://www.daisy.org/z3986/2005/ncx/",
		Version: "2005-1",
		Metas: []opfMeta{
			{Name: "dtb:uid", Content: b.Identifier},
			{Name: "dtb:depth", Content: "1"},
			{Name: "dtb:totalPageCount", Content: "0"},
			{Name: "dtb:maxPageNumber", Content: "0"},
		},
		DocTitle: ncxText{Text: b.Title},
	}
	for i, p := range b.nav {
		root.NavMap.Points = append(root.NavMap.Points, ncxNavPoint{
			ID:        fmt.Sprintf("navpoint-%d", i+1),
			PlayOrder: i + 1,
			Label:     ncxText{Text: p.Title},
			Content:   ncxContent{Src: p.Path},
		})
	}

	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
