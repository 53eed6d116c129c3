// Package errors defines the page verification errors.
package errors

import "errors"

// ErrVerifyReadFailed indicates a rewritten page could not be opened for
// verification.
var ErrVerifyReadFailed = errors.New("verification read failed")
