package errors

// Package errors provides sentinel errors for the highlight rewrite engine.
// These enable consistent classification of highlight stage failures.

import "errors"

var (
	// ErrPageReadFailed indicates reading a page before rewriting failed.
	ErrPageReadFailed = errors.New("page read failed")

	// ErrPageWriteFailed indicates writing a rewritten page back failed.
	ErrPageWriteFailed = errors.New("page write failed")

	// ErrBadPassPattern indicates a user-supplied pass pattern did not compile
	// or lacks the required capture group.
	ErrBadPassPattern = errors.New("invalid pass pattern")
)
