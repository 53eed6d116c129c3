// Package errors defines the documentation generator errors.
package errors

import "errors"

var (
	// ErrGeneratorNotFound indicates the generator command is not on PATH.
	ErrGeneratorNotFound = errors.New("generator command not found")

	// ErrGeneratorDirMissing indicates the configured working directory for
	// the generator does not exist.
	ErrGeneratorDirMissing = errors.New("generator working directory missing")

	// ErrGeneratorFailed indicates the generator ran and exited non-zero.
	ErrGeneratorFailed = errors.New("generator execution failed")
)
