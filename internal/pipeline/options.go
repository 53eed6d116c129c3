package pipeline

import (
	"log/slog"

	"git.home.luguber.info/inful/docpolish/internal/config"
	"git.home.luguber.info/inful/docpolish/internal/generate"
	"git.home.luguber.info/inful/docpolish/internal/metrics"
	"git.home.luguber.info/inful/docpolish/internal/notify"
	"git.home.luguber.info/inful/docpolish/internal/store"
)

// options collects the injectable collaborators of a build. Everything has a
// working default derived from the configuration, so plain Build(ctx, cfg)
// runs a complete build.
type options struct {
	generator  generate.Generator
	recorder   metrics.Recorder
	store      store.Store
	notifier   notify.Notifier
	logger     *slog.Logger
	outputRoot string
}

// Option customizes a single build.
type Option func(*options)

// WithGenerator replaces the generator selected from the configuration.
func WithGenerator(g generate.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithRecorder installs a metrics recorder. The default recorder discards
// every observation.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithStore installs a run-history store. Without one, runs are not recorded.
func WithStore(s store.Store) Option {
	return func(o *options) { o.store = s }
}

// WithNotifier installs a build-event notifier. Without one, no events are
// published.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLogger replaces slog.Default as the build logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOutputRoot re-points the build at a different documentation root. The
// generator still writes wherever it is configured to write; discovery,
// rewriting and asset assembly all happen under root instead of docs.root.
func WithOutputRoot(root string) Option {
	return func(o *options) { o.outputRoot = root }
}

func defaultOptions(cfg *config.Config) options {
	return options{
		generator:  generate.ForConfig(cfg.Generator),
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
		outputRoot: cfg.Docs.Root,
	}
}
