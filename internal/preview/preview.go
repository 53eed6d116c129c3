// Package preview serves a polished documentation tree over HTTP and
// rebuilds it when the generator sources change.
package preview

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docpolish/internal/config"
	"git.home.luguber.info/inful/docpolish/internal/logfields"
	"git.home.luguber.info/inful/docpolish/internal/metrics"
	"git.home.luguber.info/inful/docpolish/internal/pipeline"
)

// RebuildFunc runs one build and returns its report. The preview server
// calls it for the initial build and again after every source change.
type RebuildFunc func(ctx context.Context) (*pipeline.Report, error)

const debounceDelay = 300 * time.Millisecond

// Rebuild trigger sources, used as the metric label.
const (
	triggerWatch    = "watch"
	triggerPeriodic = "periodic"
)

// Server watches the generator sources, rebuilds on change and serves the
// resulting tree together with status and metrics endpoints.
type Server struct {
	cfg     *config.Config
	root    string
	rebuild RebuildFunc
	reg     *prom.Registry

	state    *buildState
	requests chan struct{}
	triggers *prom.CounterVec

	debounceMu sync.Mutex
	debounce   *time.Timer

	collectorsOnce sync.Once
}

// NewServer sets up a preview server for the tree at root. reg may carry the
// build metrics recorder's registry; nil gets an empty one so /metrics always
// answers.
func NewServer(cfg *config.Config, root string, rebuild RebuildFunc, reg *prom.Registry) *Server {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	triggers := prom.NewCounterVec(prom.CounterOpts{
		Namespace: "docpolish",
		Subsystem: "preview",
		Name:      "rebuild_triggers_total",
		Help:      "Rebuild triggers observed, before debouncing.",
	}, []string{"source"})
	reg.MustRegister(triggers)

	return &Server{
		cfg:      cfg,
		root:     root,
		rebuild:  rebuild,
		reg:      reg,
		state:    newBuildState(),
		requests: make(chan struct{}, 1),
		triggers: triggers,
	}
}

// Run builds once, then serves and watches until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.registerBaseCollectors()
	s.runRebuild(ctx)

	ln, err := net.Listen("tcp", s.cfg.Preview.Addr)
	if err != nil {
		return fmt.Errorf("preview listen %s: %w", s.cfg.Preview.Addr, err)
	}

	httpServer := s.newHTTPServer()
	go func() {
		if serveErr := httpServer.Serve(ln); serveErr != nil && !stderrors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("preview server error", logfields.Error(serveErr))
		}
	}()
	slog.Info("preview server listening",
		logfields.Addr(ln.Addr().String()),
		logfields.Root(s.root),
		logfields.URL(fmt.Sprintf("http://%s/", ln.Addr())))

	watcher, err := s.newWatcher()
	if err != nil {
		_ = httpServer.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	scheduler, err := s.startScheduler()
	if err != nil {
		_ = httpServer.Close()
		return err
	}

	s.startWorker(ctx)
	return s.loop(ctx, watcher, scheduler, httpServer)
}

// registerBaseCollectors adds the runtime collectors next to whatever build
// metrics the registry already carries.
func (s *Server) registerBaseCollectors() {
	s.collectorsOnce.Do(func() {
		s.reg.MustRegister(
			promcollect.NewGoCollector(),
			promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	})
}

func (s *Server) newHTTPServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.root)))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.Handle("/metrics", metrics.HTTPHandler(s.reg))

	return &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// startWorker drains rebuild requests one at a time. The request channel
// holds a single element, so triggers arriving during a build coalesce into
// one follow-up rebuild.
func (s *Server) startWorker(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-s.requests:
				if !ok {
					return
				}
				s.runRebuild(ctx)
			}
		}
	}()
}

func (s *Server) runRebuild(ctx context.Context) {
	rep, err := s.rebuild(ctx)
	s.state.record(rep, err)
	if err != nil {
		slog.Warn("preview rebuild failed", logfields.Error(err))
		return
	}
	slog.Info("preview rebuilt",
		logfields.Pages(rep.Pages),
		logfields.Rewritten(rep.Rewritten),
		logfields.DurationMS(float64(rep.Duration.Milliseconds())))
}

// triggerRebuild schedules a rebuild after a quiet period, replacing any
// pending schedule. Editors fire bursts of events per save; only the last
// one should count.
func (s *Server) triggerRebuild(source string) {
	s.triggers.WithLabelValues(source).Inc()

	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(debounceDelay, func() {
		select {
		case s.requests <- struct{}{}:
		default:
		}
	})
}

func (s *Server) shutdown(httpServer *http.Server, stopScheduler func() error) error {
	slog.Info("shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if stopScheduler != nil {
		if err := stopScheduler(); err != nil {
			slog.Warn("scheduler shutdown error", logfields.Error(err))
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("preview server shutdown error", logfields.Error(err))
	}
	return nil
}
