// Package docs discovers generated documentation pages on disk.
//
// A Discovery walks a documentation root depth first and yields every
// regular file whose name carries the configured suffix. Visit streams
// pages to a callback as they are found, so large trees never have to be
// held in memory at once; Discover collects them when a slice is more
// convenient.
package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/docpolish/internal/docs/errors"
	"git.home.luguber.info/inful/docpolish/internal/logfields"
)

// Page is one discovered documentation file.
type Page struct {
	// Path is the filesystem path of the file, rooted wherever the
	// discovery root was rooted.
	Path string

	// RelPath is the path relative to the documentation root.
	RelPath string

	// Size is the file size in bytes at discovery time.
	Size int64

	// ModTime is the file modification time at discovery time.
	ModTime time.Time
}

// Discovery finds documentation pages under a root directory.
type Discovery struct {
	root   string
	suffix string
	logger *slog.Logger
}

// NewDiscovery creates a Discovery for the given root. Only regular files
// whose name ends in suffix are yielded.
func NewDiscovery(root, suffix string) *Discovery {
	return &Discovery{
		root:   root,
		suffix: suffix,
		logger: slog.Default(),
	}
}

// Visit walks the tree depth first and calls fn for every matching page.
// An error returned by fn aborts the walk and is returned unchanged. A
// missing or unreadable root is an error; a root containing no matching
// pages is not.
func (d *Discovery) Visit(fn func(Page) error) error {
	info, err := os.Stat(d.root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", derrors.ErrDocsRootMissing, d.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", derrors.ErrDocsRootNotDir, d.root)
	}

	return filepath.Walk(d.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %s: %w", derrors.ErrDocsWalkFailed, path, err)
		}

		if info.IsDir() {
			if path != d.root && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		// Sockets, devices and other non-regular entries are not pages.
		if isHidden(info.Name()) || !info.Mode().IsRegular() {
			return nil
		}
		if !strings.HasSuffix(info.Name(), d.suffix) {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", derrors.ErrInvalidRelativePath, path, err)
		}

		return fn(Page{Path: path, RelPath: rel, Size: info.Size(), ModTime: info.ModTime()})
	})
}

// Discover collects every matching page into a slice, in walk order.
func (d *Discovery) Discover() ([]Page, error) {
	var pages []Page

	err := d.Visit(func(p Page) error {
		pages = append(pages, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Debug("discovered documentation pages",
		logfields.Root(d.root),
		logfields.Pages(len(pages)))

	return pages, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
