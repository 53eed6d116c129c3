package site

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docpolish/internal/docs"
	serrors "git.home.luguber.info/inful/docpolish/internal/site/errors"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapAsset renders sitemap.xml over the processed pages. Without a
// base URL there is nothing valid to emit, so the asset is skipped.
func (a *Assembler) sitemapAsset(pages []docs.Page) (*StaticAsset, error) {
	if a.cfg.BaseURL == "" {
		return nil, nil
	}

	set := sitemapURLSet{
		Xmlns: sitemapNamespace,
		URLs:  make([]sitemapURL, 0, len(pages)),
	}
	for _, page := range pages {
		entry := sitemapURL{Loc: joinURL(a.cfg.BaseURL, filepath.ToSlash(page.RelPath))}
		if !page.ModTime.IsZero() {
			entry.LastMod = page.ModTime.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, entry)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: sitemap.xml: %w", serrors.ErrAssetWriteFailed, err)
	}

	content := append([]byte(xml.Header), body...)
	content = append(content, '\n')

	return &StaticAsset{Path: "sitemap.xml", Content: content}, nil
}

func joinURL(base, rel string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}
