// Package errors provides a lightweight structured error type (BuildError)
// for stage and category classification in the CLI exit path.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory classifies a BuildError for exit-code and reporting decisions.
type ErrorCategory string

const (
	// CategoryConfig covers invalid configuration and pattern compilation
	// failures detected at startup, before any file is touched.
	CategoryConfig ErrorCategory = "config"

	// CategoryIO covers unreadable roots, unreadable or unwritable files,
	// and asset-copy failures.
	CategoryIO ErrorCategory = "io"

	// CategoryUpstream covers external generator failures. The pipeline
	// never post-processes after an upstream failure.
	CategoryUpstream ErrorCategory = "upstream"

	// CategoryInternal covers everything else.
	CategoryInternal ErrorCategory = "internal"
)

// Stage names identify which pipeline step produced an error. They appear in
// user-visible failure messages and in logs.
const (
	StageConfig    = "config"
	StageGenerate  = "generate"
	StageWalk      = "walk"
	StageHighlight = "highlight"
	StageVerify    = "verify"
	StageAssets    = "assets"
	StageStore     = "store"
	StageNotify    = "notify"
)

// BuildError is a structured error carrying the failing stage and category.
// All BuildErrors are fatal to the run; there is no partial-success mode.
type BuildError struct {
	Stage    string
	Category ErrorCategory
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// New creates a new BuildError.
func New(stage string, category ErrorCategory, message string) *BuildError {
	return &BuildError{
		Stage:    stage,
		Category: category,
		Message:  message,
	}
}

// Wrap creates a new BuildError that wraps an existing error.
func Wrap(err error, stage string, category ErrorCategory, message string) *BuildError {
	return &BuildError{
		Stage:    stage,
		Category: category,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	var be *BuildError
	if stderrors.As(err, &be) {
		return be.Category == category
	}
	return false
}

// CategoryOf extracts the category from an error, or CategoryInternal if it
// carries no BuildError.
func CategoryOf(err error) ErrorCategory {
	var be *BuildError
	if stderrors.As(err, &be) {
		return be.Category
	}
	return CategoryInternal
}

// StageOf extracts the stage from an error, or "" if it carries no BuildError.
func StageOf(err error) string {
	var be *BuildError
	if stderrors.As(err, &be) {
		return be.Stage
	}
	return ""
}
