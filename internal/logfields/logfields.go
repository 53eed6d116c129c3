package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyRunID      = "run_id"
	KeyRoot       = "root"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyPass       = "pass"
	KeyPages      = "pages"
	KeyRewritten  = "rewritten"
	KeyWorkers    = "workers"
	KeyDurationMS = "duration_ms"
	KeyCommand    = "command"
	KeyAddr       = "addr"
	KeySubject    = "subject"
	KeyCommit     = "commit"
	KeyBranch     = "branch"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Root(p string) slog.Attr         { return slog.String(KeyRoot, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Pass(name string) slog.Attr      { return slog.String(KeyPass, name) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Rewritten(n int) slog.Attr       { return slog.Int(KeyRewritten, n) }
func Workers(n int) slog.Attr         { return slog.Int(KeyWorkers, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
