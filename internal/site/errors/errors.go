// Package errors defines the static-site assembly errors.
package errors

import "errors"

var (
	// ErrAssetWriteFailed indicates a site asset could not be written to the
	// output root.
	ErrAssetWriteFailed = errors.New("site asset write failed")

	// ErrLandingPageMissing indicates a configured landing page source file
	// does not exist or cannot be read.
	ErrLandingPageMissing = errors.New("landing page source missing")

	// ErrLandingPageRender indicates a landing page failed to render.
	ErrLandingPageRender = errors.New("landing page render failed")
)
