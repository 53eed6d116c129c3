// Package store persists build history.
package store

import (
	"context"
	"time"
)

// Run outcome values.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Run is one recorded build.
type Run struct {
	ID        string // run UUID
	Started   time.Time
	Duration  time.Duration
	Pages     int
	Rewritten int
	Unchanged int
	Commit    string // short commit SHA, empty without a repository
	Branch    string
	Outcome   string
	Detail    string // failure detail, empty on success
}

// Store records build runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}
