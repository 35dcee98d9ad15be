// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
)

// Package is the structural view of a written container: identity, reading
// order, and the manifest registry. It is what round-trip checks compare
// against the state that was written.
type Package struct {
	Identifier string
	Title      string
	Language   string

	// Spine lists manifest ids in reading order.
	Spine []string

	// Manifest maps manifest id to href relative to the content root.
	Manifest map[string]string

	// Metas holds the arbitrary metadata entries, name to content.
	Metas map[string]string

	// NavTitles lists NCX navigation labels in play order.
	NavTitles []string
}

// ReadPackage opens a written container and returns its structure.
func ReadPackage(epubPath string) (*Package, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", epubPath, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	rootfile, err := rootfilePath(files)
	if err != nil {
		return nil, err
	}

	opfData, err := readEntry(files, rootfile)
	if err != nil {
		return nil, err
	}

	var opf struct {
		Metadata struct {
			Identifier string `xml:"identifier"`
			Title      string `xml:"title"`
			Language   string `xml:"language"`
			Metas      []struct {
				Name    string `xml:"name,attr"`
				Content string `xml:"content,attr"`
			} `xml:"meta"`
		} `xml:"metadata"`
		Manifest struct {
			Items []struct {
				ID   string `xml:"id,attr"`
				Href string `xml:"href,attr"`
			} `xml:"item"`
		} `xml:"manifest"`
		Spine struct {
			Itemrefs []struct {
				IDref string `xml:"idref,attr"`
			} `xml:"itemref"`
		} `xml:"spine"`
	}
	if err := xml.Unmarshal(opfData, &opf); err != nil {
		return nil, fmt.Errorf("parse package document: %w", err)
	}

	pkg := &Package{
		Identifier: opf.Metadata.Identifier,
		Title:      opf.Metadata.Title,
		Language:   opf.Metadata.Language,
		Manifest:   make(map[string]string, len(opf.Manifest.Items)),
		Metas:      make(map[string]string, len(opf.Metadata.Metas)),
	}
	for _, item := range opf.Manifest.Items {
		pkg.Manifest[item.ID] = item.Href
	}
	for _, m := range opf.Metadata.Metas {
		pkg.Metas[m.Name] = m.Content
	}
	for _, ref := range opf.Spine.Itemrefs {
		pkg.Spine = append(pkg.Spine, ref.IDref)
	}

	if href, ok := pkg.Manifest[ncxID]; ok {
		ncxData, err := readEntry(files, path.Join(path.Dir(rootfile), href))
		if err != nil {
			return nil, err
		}
		var ncx struct {
			Points []struct {
				Label struct {
					Text string `xml:"text"`
				} `xml:"navLabel"`
			} `xml:"navMap>navPoint"`
		}
		if err := xml.Unmarshal(ncxData, &ncx); err != nil {
			return nil, fmt.Errorf("parse navigation document: %w", err)
		}
		for _, p := range ncx.Points {
			pkg.NavTitles = append(pkg.NavTitles, p.Label.Text)
		}
	}

	return pkg, nil
}

// rootfilePath reads META-INF/container.xml and returns the OPF location.
func rootfilePath(files map[string]*zip.File) (string, error) {
	data, err := readEntry(files, containerPath)
	if err != nil {
		return "", err
	}
	var container struct {
		Rootfiles []struct {
			FullPath string `xml:"full-path,attr"`
		} `xml:"rootfiles>rootfile"`
	}
	if err := xml.Unmarshal(data, &container); err != nil {
		return "", fmt.Errorf("parse container.xml: %w", err)
	}
	if len(container.Rootfiles) == 0 {
		return "", fmt.Errorf("container.xml lists no rootfiles")
	}
	return container.Rootfiles[0].FullPath, nil
}

func readEntry(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("container is missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
