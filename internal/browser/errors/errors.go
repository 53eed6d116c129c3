// Package errors defines the browser launch errors.
package errors

import "errors"

var (
	// ErrOpenFailed indicates the platform opener could not be started.
	ErrOpenFailed = errors.New("browser open failed")

	// ErrNoIndexPage indicates no index page was found under the
	// documentation root.
	ErrNoIndexPage = errors.New("no index page found")
)
