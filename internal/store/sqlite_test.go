package store

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := t.Context()
	run := Run{
		ID:        "run-1",
		Started:   time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC),
		Duration:  2300 * time.Millisecond,
		Pages:     140,
		Rewritten: 120,
		Unchanged: 20,
		Commit:    "0123456789ab",
		Branch:    "main",
		Outcome:   OutcomeSuccess,
	}

	if err := s.Record(ctx, run); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	got := runs[0]
	if got.ID != run.ID {
		t.Errorf("id = %q, want %q", got.ID, run.ID)
	}
	if !got.Started.Equal(run.Started) {
		t.Errorf("started = %v, want %v", got.Started, run.Started)
	}
	if got.Duration != run.Duration {
		t.Errorf("duration = %v, want %v", got.Duration, run.Duration)
	}
	if got.Pages != run.Pages || got.Rewritten != run.Rewritten || got.Unchanged != run.Unchanged {
		t.Errorf("counts = %d/%d/%d, want %d/%d/%d",
			got.Pages, got.Rewritten, got.Unchanged, run.Pages, run.Rewritten, run.Unchanged)
	}
	if got.Commit != run.Commit || got.Branch != run.Branch {
		t.Errorf("stamp = %s@%s, want %s@%s", got.Branch, got.Commit, run.Branch, run.Commit)
	}
	if got.Outcome != OutcomeSuccess || got.Detail != "" {
		t.Errorf("outcome = %q detail %q, want success with no detail", got.Outcome, got.Detail)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := t.Context()
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	for i := range 3 {
		run := Run{
			ID:      []string{"old", "mid", "new"}[i],
			Started: base.Add(time.Duration(i) * time.Hour),
			Outcome: OutcomeSuccess,
		}
		if err := s.Record(ctx, run); err != nil {
			t.Fatalf("failed to record run: %v", err)
		}
	}

	runs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("order = [%s %s], want [new mid]", runs[0].ID, runs[1].ID)
	}
}

func TestRecordFailedRunKeepsDetail(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := t.Context()
	run := Run{
		ID:      "run-err",
		Started: time.Now(),
		Outcome: OutcomeFailed,
		Detail:  "highlight: page write failed: index.html",
	}
	if err := s.Record(ctx, run); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}

	runs, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("failed to read runs: %v", err)
	}
	if runs[0].Outcome != OutcomeFailed {
		t.Errorf("outcome = %q, want failed", runs[0].Outcome)
	}
	if runs[0].Detail == "" {
		t.Error("detail should survive the round trip")
	}
}

func TestStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store at %s: %v", path, err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Record(t.Context(), Run{ID: "r", Started: time.Now(), Outcome: OutcomeSuccess}); err != nil {
		t.Fatalf("failed to record run: %v", err)
	}
}
