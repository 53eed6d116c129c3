package pipeline

import (
	"time"

	"git.home.luguber.info/inful/docpolish/internal/gitinfo"
	"git.home.luguber.info/inful/docpolish/internal/store"
	"git.home.luguber.info/inful/docpolish/internal/verify"
)

// Report summarizes one build. Build returns it even when the build fails,
// so callers always have the run id, the resolved root and whatever stage
// timings were gathered before the failure.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration

	// Root is the documentation root every stage after generation operated
	// on. Callers print it so users know where the finished tree lives.
	Root string

	Pages     int
	Rewritten int
	Unchanged int

	// Assets lists the site files written during assembly, relative to Root.
	Assets []string

	// Findings holds verification warnings. They never fail the build.
	Findings []verify.Finding

	// Git stamps the build with the repository state of the generator
	// working directory, when there is one.
	Git gitinfo.Info

	// StageDurations records wall time per completed stage, keyed by stage
	// name.
	StageDurations map[string]time.Duration
}

// run converts the report into a history record.
func (r *Report) run(buildErr error) store.Run {
	rec := store.Run{
		ID:        r.RunID,
		Started:   r.Started,
		Duration:  r.Duration,
		Pages:     r.Pages,
		Rewritten: r.Rewritten,
		Unchanged: r.Unchanged,
		Commit:    r.Git.Commit,
		Branch:    r.Git.Branch,
		Outcome:   store.OutcomeSuccess,
	}
	if buildErr != nil {
		rec.Outcome = store.OutcomeFailed
		rec.Detail = buildErr.Error()
	}
	return rec
}
