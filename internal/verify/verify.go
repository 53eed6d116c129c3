// Package verify checks rewritten pages for highlight-span damage.
//
// The rewrite engine guarantees that a highlight span wraps plain token
// text and is never nested inside a span of the same class. Verification
// re-parses the written page and reports violations, catching regressions
// in the pass table before a broken tree ships.
package verify

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	verrors "git.home.luguber.info/inful/docpolish/internal/verify/errors"
)

// Finding is one suspicious construct in a rewritten page.
type Finding struct {
	Path   string // page the finding was made in
	Class  string // offending highlight class
	Detail string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: span.%s: %s", f.Path, f.Class, f.Detail)
}

// Checker inspects pages for damaged highlight spans.
type Checker struct {
	classes map[string]bool
}

// NewChecker creates a Checker for the given highlight classes. With no
// classes it checks the built-in ones.
func NewChecker(classes ...string) *Checker {
	if len(classes) == 0 {
		classes = []string{"kw", "kw-2"}
	}
	set := make(map[string]bool, len(classes))
	for _, c := range classes {
		set[c] = true
	}
	return &Checker{classes: set}
}

// CheckFile parses one page and returns its findings.
func (c *Checker) CheckFile(path string) ([]Finding, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", verrors.ErrVerifyReadFailed, path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return c.CheckReader(file, path)
}

// CheckReader parses HTML from r and returns its findings. The path is
// only used to label findings.
func (c *Checker) CheckReader(r io.Reader, path string) ([]Finding, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", verrors.ErrVerifyReadFailed, path, err)
	}

	var findings []Finding

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if class, ok := c.highlightSpan(n); ok {
			if hasNestedClass(n, class) {
				findings = append(findings, Finding{
					Path:   path,
					Class:  class,
					Detail: "nested span of the same class",
				})
			}
			if hasElementChild(n) {
				findings = append(findings, Finding{
					Path:   path,
					Class:  class,
					Detail: "span contains markup instead of token text",
				})
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return findings, nil
}

// highlightSpan reports whether n is a span carrying exactly one of the
// checked classes. Multi-class structural spans (rustdoc's own "where
// fmt-newline" containers) are not highlight spans.
func (c *Checker) highlightSpan(n *html.Node) (string, bool) {
	if n.Type != html.ElementNode || n.Data != "span" {
		return "", false
	}
	class := getAttr(n, "class")
	if class == "" || strings.ContainsAny(class, " \t") {
		return "", false
	}
	return class, c.classes[class]
}

func hasNestedClass(n *html.Node, class string) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "span" && getAttr(child, "class") == class {
			return true
		}
		if hasNestedClass(child, class) {
			return true
		}
	}
	return false
}

func hasElementChild(n *html.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
