package site

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	serrors "git.home.luguber.info/inful/docpolish/internal/site/errors"
)

// landingAssets renders the configured Markdown sources into standalone
// HTML documents at the output root.
func (a *Assembler) landingAssets() ([]*StaticAsset, error) {
	if len(a.cfg.Pages) == 0 {
		return nil, nil
	}

	assets := make([]*StaticAsset, 0, len(a.cfg.Pages))
	for _, src := range a.cfg.Pages {
		asset, err := a.renderLandingPage(src)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (a *Assembler) renderLandingPage(src string) (*StaticAsset, error) {
	source, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", serrors.ErrLandingPageMissing, src, err)
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var body bytes.Buffer
	if err := md.Renderer().Render(&body, source, root); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", serrors.ErrLandingPageRender, src, err)
	}

	title := firstHeading(source, root)
	if title == "" {
		title = titleFromFileName(src)
	}

	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".html"
	return &StaticAsset{Path: name, Content: a.landingShell(title, body.Bytes())}, nil
}

func (a *Assembler) landingShell(title string, body []byte) []byte {
	full := title
	if a.cfg.Title != "" && a.cfg.Title != title {
		full = title + " - " + a.cfg.Title
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("<meta charset=\"utf-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(full))
	if a.cfg.Theme {
		fmt.Fprintf(&buf, "<link rel=%q href=%q>\n", "stylesheet", ThemeFileName)
	}
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

// firstHeading returns the text of the first level-1 heading, if any.
func firstHeading(source []byte, root gmast.Node) string {
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			title = headingText(source, h)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func headingText(source []byte, h *gmast.Heading) string {
	var buf bytes.Buffer
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(buf.String())
}

// titleFromFileName derives a display title from the source file name when
// the page has no heading to take one from.
func titleFromFileName(src string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.Und).String(name)
}
