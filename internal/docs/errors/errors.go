// Package errors defines the documentation-tree discovery errors.
package errors

import "errors"

var (
	// ErrDocsRootMissing indicates the documentation root does not exist or
	// cannot be read.
	ErrDocsRootMissing = errors.New("documentation root missing")

	// ErrDocsRootNotDir indicates the configured documentation root exists
	// but is not a directory.
	ErrDocsRootNotDir = errors.New("documentation root is not a directory")

	// ErrDocsWalkFailed indicates a failure while walking the documentation
	// tree.
	ErrDocsWalkFailed = errors.New("documentation tree walk failed")

	// ErrInvalidRelativePath indicates a discovered file whose path could not
	// be made relative to the documentation root.
	ErrInvalidRelativePath = errors.New("invalid relative path")
)
