package preview

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docpolish/internal/logfields"
)

// newWatcher watches the generator working directory recursively, excluding
// the build output so rewrites never trigger their own rebuild.
func (s *Server) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	watchRoot, err := filepath.Abs(s.cfg.Generator.Dir)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	if err := s.addDirsRecursive(watcher, watchRoot); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// watchSkips lists absolute directory prefixes excluded from watching: the
// served tree itself, and the first path element of docs.root because the
// generator churns its whole build directory, not just the docs subtree.
func (s *Server) watchSkips() []string {
	skips := []string{absOrSelf(s.root)}
	if root := s.cfg.Docs.Root; root != "" && !filepath.IsAbs(root) {
		first, _, _ := strings.Cut(filepath.ToSlash(root), "/")
		skips = append(skips, absOrSelf(filepath.Join(s.cfg.Generator.Dir, first)))
	}
	return skips
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func skipped(path string, skips []string) bool {
	abs := absOrSelf(path)
	for _, skip := range skips {
		if abs == skip || strings.HasPrefix(abs, skip+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s *Server) addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	skips := s.watchSkips()
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (skipped(path, skips) || strings.HasPrefix(d.Name(), ".")) {
			return fs.SkipDir
		}
		if addErr := watcher.Add(path); addErr != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(addErr))
		}
		return nil
	})
}

// shouldIgnoreEvent filters events for hidden files and editor temp or swap
// files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

func (s *Server) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if skipped(ev.Name, s.watchSkips()) || shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = s.addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("source change detected",
		logfields.Path(ev.Name),
		slog.String("op", ev.Op.String()))
	s.triggerRebuild(triggerWatch)
}

// startScheduler arranges periodic rebuilds when preview.rebuild_every is
// set. It returns nil without error when disabled.
func (s *Server) startScheduler() (gocron.Scheduler, error) {
	every := s.cfg.Preview.RebuildEvery
	if every == "" {
		return nil, nil
	}
	interval, err := time.ParseDuration(every)
	if err != nil {
		return nil, fmt.Errorf("preview rebuild_every: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.triggerRebuild(triggerPeriodic) }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule periodic rebuild: %w", err)
	}

	scheduler.Start()
	slog.Info("periodic rebuild scheduled", slog.String("every", interval.String()))
	return scheduler, nil
}

func (s *Server) loop(ctx context.Context, watcher *fsnotify.Watcher, scheduler gocron.Scheduler, httpServer *http.Server) error {
	stopScheduler := func() error { return nil }
	if scheduler != nil {
		stopScheduler = scheduler.Shutdown
	}

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(httpServer, stopScheduler)
		case ev, ok := <-watcher.Events:
			if !ok {
				return s.shutdown(httpServer, stopScheduler)
			}
			s.handleEvent(watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return s.shutdown(httpServer, stopScheduler)
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}
