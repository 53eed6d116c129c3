// Package site assembles the deployable static-site assets around a
// processed documentation tree: the supplementary stylesheet, robots.txt,
// CNAME, sitemap.xml and optional rendered landing pages.
package site

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docpolish/internal/config"
	"git.home.luguber.info/inful/docpolish/internal/docs"
	"git.home.luguber.info/inful/docpolish/internal/logfields"
	serrors "git.home.luguber.info/inful/docpolish/internal/site/errors"
)

//go:embed assets/theme.css
var themeCSS []byte

// ThemeFileName is the stylesheet written to the output root when the
// theme is enabled.
const ThemeFileName = "docpolish.css"

// StaticAsset is one file written verbatim to the output root. Assets do
// not pass through the rewrite engine.
type StaticAsset struct {
	Path    string // relative to the output root
	Content []byte
}

// Assembler writes site assets into an output root.
type Assembler struct {
	cfg    config.SiteConfig
	root   string
	logger *slog.Logger
}

// NewAssembler creates an Assembler writing into root.
func NewAssembler(cfg config.SiteConfig, root string) *Assembler {
	return &Assembler{
		cfg:    cfg,
		root:   root,
		logger: slog.Default(),
	}
}

// Assemble generates and writes every configured asset. It returns the
// root-relative paths written, in write order. The first write failure
// aborts assembly.
func (a *Assembler) Assemble(pages []docs.Page) ([]string, error) {
	assets := a.themeAssets()
	assets = append(assets, a.robotsAssets()...)
	assets = append(assets, a.cnameAssets()...)

	if sm, err := a.sitemapAsset(pages); err != nil {
		return nil, err
	} else if sm != nil {
		assets = append(assets, sm)
	}

	landing, err := a.landingAssets()
	if err != nil {
		return nil, err
	}
	assets = append(assets, landing...)

	written := make([]string, 0, len(assets))
	for _, asset := range assets {
		if err := a.write(asset); err != nil {
			return written, err
		}
		written = append(written, asset.Path)
	}

	a.logger.Debug("site assets assembled",
		logfields.Root(a.root),
		slog.Int("assets", len(written)))

	return written, nil
}

func (a *Assembler) write(asset *StaticAsset) error {
	target := filepath.Join(a.root, filepath.FromSlash(asset.Path))

	if dir := filepath.Dir(target); dir != a.root {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %s: %w", serrors.ErrAssetWriteFailed, asset.Path, err)
		}
	}
	if err := os.WriteFile(target, asset.Content, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", serrors.ErrAssetWriteFailed, asset.Path, err)
	}
	return nil
}

func (a *Assembler) themeAssets() []*StaticAsset {
	if !a.cfg.Theme {
		return nil
	}
	return []*StaticAsset{{Path: ThemeFileName, Content: themeCSS}}
}

func (a *Assembler) robotsAssets() []*StaticAsset {
	var body string
	if a.cfg.Robots == config.RobotsDisallow {
		body = "User-agent: *\nDisallow: /\n"
	} else {
		body = "User-agent: *\nAllow: /\n"
	}
	if a.cfg.BaseURL != "" {
		body += "Sitemap: " + joinURL(a.cfg.BaseURL, "sitemap.xml") + "\n"
	}
	return []*StaticAsset{{Path: "robots.txt", Content: []byte(body)}}
}

func (a *Assembler) cnameAssets() []*StaticAsset {
	if a.cfg.Domain == "" {
		return nil
	}
	return []*StaticAsset{{Path: "CNAME", Content: []byte(a.cfg.Domain + "\n")}}
}
