// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images localizes the image references inside an extracted
// fragment: it downloads each referenced image, deduplicates by source URL
// within the chapter scope, and rewrites references to package-local paths.
package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/feedbook/internal/httputil"
	"github.com/pdiddy/feedbook/pkg/types"
)

// hashLen is the length of the stable source-URL hash used in asset paths.
const hashLen = 12

// Resolver downloads and rewrites image references under a fixed identity.
type Resolver struct {
	Client    *http.Client
	UserAgent string
}

// Rewrite parses fragment, resolves every image reference (including legacy
// <graphic> elements, which are normalized to <img>) against baseURL,
// downloads the image, and rewrites the reference to the stored asset path
// "images/<scope>/<hash>.<ext>". References that fail to download are left
// untouched and reported in warnings; the chapter still ships. Repeated
// source URLs within the scope resolve to exactly one asset.
func (r *Resolver) Rewrite(ctx context.Context, fragment, scope, baseURL string) (string, []types.ImageAsset, []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment, nil, []string{fmt.Sprintf("parse fragment: %v", err)}
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var (
		assets   []types.ImageAsset
		warnings []string
		byURL    = make(map[string]string) // source URL -> stored path
	)

	doc.Find("img, graphic").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}

		resolved := resolveRef(base, src)
		if resolved == "" {
			warnings = append(warnings, fmt.Sprintf("image %q: unresolvable reference", src))
			return
		}

		stored, seen := byURL[resolved]
		if !seen {
			asset, err := r.download(ctx, resolved, scope)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("image %s: %v", resolved, err))
				return
			}
			assets = append(assets, asset)
			stored = asset.Path
			byURL[resolved] = stored
		}

		rewriteNode(sel, stored)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return fragment, assets, append(warnings, fmt.Sprintf("serialize fragment: %v", err))
	}
	return out, assets, warnings
}

// download fetches one image and builds its asset record.
func (r *Resolver) download(ctx context.Context, srcURL, scope string) (types.ImageAsset, error) {
	resp, err := httputil.Get(ctx, r.Client, srcURL, r.UserAgent)
	if err != nil {
		return types.ImageAsset{}, err
	}
	if !resp.OK() {
		return types.ImageAsset{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	mediaType := strings.TrimSpace(strings.SplitN(resp.ContentType, ";", 2)[0])
	if !strings.HasPrefix(mediaType, "image/") {
		return types.ImageAsset{}, fmt.Errorf("not an image: content type %q", resp.ContentType)
	}

	return types.ImageAsset{
		SourceURL: srcURL,
		Scope:     scope,
		Path:      path.Join("images", scope, urlHash(srcURL)+"."+extForMIME(mediaType)),
		MediaType: mediaType,
		Data:      resp.Body,
	}, nil
}

// resolveRef resolves src against base, returning "" when it cannot.
func resolveRef(base *url.URL, src string) string {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}

// rewriteNode points sel at the stored path, replacing legacy <graphic>
// elements with normalized <img> elements and preserving alt text.
func rewriteNode(sel *goquery.Selection, storedPath string) {
	// Chapter documents live under text/, one level below the package root.
	rel := "../" + storedPath

	if goquery.NodeName(sel) == "img" {
		sel.SetAttr("src", rel)
		sel.RemoveAttr("srcset")
		return
	}

	alt, _ := sel.Attr("alt")
	sel.ReplaceWithHtml(fmt.Sprintf(`<img src="%s" alt="%s"/>`,
		html.EscapeString(rel), html.EscapeString(alt)))
}

// urlHash returns a short stable hash of the image source URL. Same idea as
// deterministic item IDs: one URL always maps to one path.
func urlHash(srcURL string) string {
	sum := sha256.Sum256([]byte(srcURL))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// extForMIME derives a file extension from an image MIME type.
func extForMIME(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return "jpg"
	case "image/svg+xml":
		return "svg"
	default:
		if i := strings.LastIndex(mediaType, "/"); i >= 0 {
			return mediaType[i+1:]
		}
		return mediaType
	}
}
