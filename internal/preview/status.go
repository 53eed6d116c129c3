package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/docpolish/internal/logfields"
	"git.home.luguber.info/inful/docpolish/internal/pipeline"
	"git.home.luguber.info/inful/docpolish/internal/version"
)

// buildState tracks the most recent build for the status endpoints.
type buildState struct {
	mu      sync.RWMutex
	started time.Time
	builds  int
	report  *pipeline.Report
	err     error
}

func newBuildState() *buildState {
	return &buildState{started: time.Now()}
}

func (b *buildState) record(rep *pipeline.Report, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.builds++
	b.report = rep
	b.err = err
}

func (b *buildState) uptime() (builds int, since time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.builds, b.started
}

// statusResponse is the /api/status payload.
type statusResponse struct {
	Status     string    `json:"status"`
	Builds     int       `json:"builds"`
	RunID      string    `json:"run_id,omitempty"`
	Root       string    `json:"root,omitempty"`
	Pages      int       `json:"pages"`
	Rewritten  int       `json:"rewritten"`
	Unchanged  int       `json:"unchanged"`
	Findings   int       `json:"findings"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	LastBuild  time.Time `json:"last_build,omitzero"`
}

func (b *buildState) snapshot() statusResponse {
	b.mu.RLock()
	defer b.mu.RUnlock()

	resp := statusResponse{Status: "pending", Builds: b.builds}
	switch {
	case b.err != nil:
		resp.Status = "failed"
		resp.Error = b.err.Error()
	case b.report != nil:
		resp.Status = "ok"
	}
	if b.report != nil {
		resp.RunID = b.report.RunID
		resp.Root = b.report.Root
		resp.Pages = b.report.Pages
		resp.Rewritten = b.report.Rewritten
		resp.Unchanged = b.report.Unchanged
		resp.Findings = len(b.report.Findings)
		resp.DurationMS = b.report.Duration.Milliseconds()
		resp.LastBuild = b.report.Started
	}
	return resp
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Builds        int     `json:"builds"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	builds, since := s.state.uptime()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		Version:       version.Version,
		UptimeSeconds: time.Since(since).Seconds(),
		Builds:        builds,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.state.snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", logfields.Error(err))
	}
}
