// Package pipeline drives a full documentation build: run the generator,
// discover the emitted pages, rewrite them in place with highlight spans,
// optionally verify the result, and assemble the deployable site assets.
//
// Stages run strictly in order and the first failure aborts the build. A
// failed generator therefore means no file under the documentation root is
// touched at all.
package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docpolish/internal/config"
	"git.home.luguber.info/inful/docpolish/internal/docs"
	derrors "git.home.luguber.info/inful/docpolish/internal/docs/errors"
	"git.home.luguber.info/inful/docpolish/internal/errors"
	gerrors "git.home.luguber.info/inful/docpolish/internal/generate/errors"
	"git.home.luguber.info/inful/docpolish/internal/gitinfo"
	"git.home.luguber.info/inful/docpolish/internal/highlight"
	herrors "git.home.luguber.info/inful/docpolish/internal/highlight/errors"
	"git.home.luguber.info/inful/docpolish/internal/logfields"
	"git.home.luguber.info/inful/docpolish/internal/metrics"
	"git.home.luguber.info/inful/docpolish/internal/notify"
	"git.home.luguber.info/inful/docpolish/internal/site"
	serrors "git.home.luguber.info/inful/docpolish/internal/site/errors"
	"git.home.luguber.info/inful/docpolish/internal/store"
	"git.home.luguber.info/inful/docpolish/internal/verify"
	verrors "git.home.luguber.info/inful/docpolish/internal/verify/errors"
)

// Build runs one complete documentation build and returns its report. The
// report is non-nil even on failure. Errors are BuildErrors carrying the
// failing stage and category.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*Report, error) {
	o := defaultOptions(cfg)
	for _, opt := range opts {
		opt(&o)
	}

	b := &build{
		cfg:  cfg,
		opts: o,
		report: &Report{
			RunID:          uuid.NewString(),
			Started:        time.Now(),
			Root:           o.outputRoot,
			StageDurations: make(map[string]time.Duration),
		},
	}
	b.logger = o.logger.With(logfields.RunID(b.report.RunID))
	b.logger.Info("build started",
		logfields.Root(b.report.Root),
		logfields.Workers(cfg.Highlight.Workers))

	err := b.run(ctx)
	b.finish(ctx, err)
	return b.report, err
}

type build struct {
	cfg    *config.Config
	opts   options
	logger *slog.Logger

	engine *highlight.Engine
	pages  []docs.Page
	report *Report
}

type stage struct {
	name string
	run  func(context.Context) error
}

func (b *build) run(ctx context.Context) error {
	stages := []stage{
		{errors.StageGenerate, b.runGenerate},
		{errors.StageWalk, b.runDiscover},
		{errors.StageHighlight, b.runHighlight},
	}
	if b.cfg.Highlight.Verify {
		stages = append(stages, stage{errors.StageVerify, b.runVerify})
	}
	stages = append(stages, stage{errors.StageAssets, b.runAssets})

	for _, st := range stages {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), st.name, errors.CategoryInternal, "build canceled")
		default:
		}

		b.logger.Debug("stage started", logfields.Stage(st.name))
		started := time.Now()
		err := st.run(ctx)
		elapsed := time.Since(started)

		b.report.StageDurations[st.name] = elapsed
		b.opts.recorder.ObserveStageDuration(st.name, elapsed)
		if err != nil {
			b.opts.recorder.IncStageResult(st.name, metrics.ResultFatal)
			return classify(st.name, err)
		}
		b.opts.recorder.IncStageResult(st.name, b.stageResult(st.name))
		b.logger.Debug("stage finished",
			logfields.Stage(st.name),
			logfields.DurationMS(millis(elapsed)))
	}
	return nil
}

// stageResult downgrades a completed verify stage to a warning when it
// produced findings.
func (b *build) stageResult(name string) metrics.ResultLabel {
	if name == errors.StageVerify && len(b.report.Findings) > 0 {
		return metrics.ResultWarning
	}
	return metrics.ResultSuccess
}

// finish runs the post-build steps that happen whether the stages succeeded
// or not: git stamping, build metrics, run history, event publication.
func (b *build) finish(ctx context.Context, buildErr error) {
	b.report.Duration = time.Since(b.report.Started)
	b.report.Git = gitinfo.Capture(b.cfg.Generator.Dir)

	b.opts.recorder.ObserveBuildDuration(b.report.Duration)
	b.opts.recorder.IncBuildOutcome(buildOutcome(b.report, buildErr))

	b.persist(ctx, buildErr)
	b.publish(buildErr)

	if buildErr != nil {
		b.logger.Error("build failed",
			logfields.Stage(errors.StageOf(buildErr)),
			logfields.Error(buildErr),
			logfields.DurationMS(millis(b.report.Duration)))
		return
	}
	b.logger.Info("build finished",
		logfields.Root(b.report.Root),
		logfields.Pages(b.report.Pages),
		logfields.Rewritten(b.report.Rewritten),
		logfields.DurationMS(millis(b.report.Duration)))
}

func buildOutcome(rep *Report, err error) metrics.ResultLabel {
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return metrics.ResultCanceled
	case err != nil:
		return metrics.ResultFatal
	case len(rep.Findings) > 0:
		return metrics.ResultWarning
	default:
		return metrics.ResultSuccess
	}
}

// persist records the run in the history store. Failures here never fail the
// build; they are logged and dropped.
func (b *build) persist(ctx context.Context, buildErr error) {
	if b.opts.store == nil {
		return
	}
	// History should survive cancellation of the build itself.
	err := b.opts.store.Record(context.WithoutCancel(ctx), b.report.run(buildErr))
	if err != nil {
		b.logger.Warn("recording run history failed",
			logfields.Stage(errors.StageStore),
			logfields.Error(err))
	}
}

// publish emits the build event. Like persist, failures are warnings only.
func (b *build) publish(buildErr error) {
	if b.opts.notifier == nil {
		return
	}
	event := &notify.BuildEvent{
		RunID:      b.report.RunID,
		Outcome:    store.OutcomeSuccess,
		Pages:      b.report.Pages,
		Rewritten:  b.report.Rewritten,
		Unchanged:  b.report.Unchanged,
		DurationMS: b.report.Duration.Milliseconds(),
		Commit:     b.report.Git.Commit,
		Branch:     b.report.Git.Branch,
	}
	if buildErr != nil {
		event.Outcome = store.OutcomeFailed
		event.Detail = buildErr.Error()
	}
	if err := b.opts.notifier.PublishBuild(event); err != nil {
		b.logger.Warn("publishing build event failed",
			logfields.Stage(errors.StageNotify),
			logfields.Error(err))
	}
}

func (b *build) runGenerate(ctx context.Context) error {
	return b.opts.generator.Generate(ctx)
}

func (b *build) runDiscover(context.Context) error {
	pages, err := docs.NewDiscovery(b.walkRoot(), b.cfg.Docs.Suffix).Discover()
	if err != nil {
		return err
	}
	b.pages = pages
	b.report.Pages = len(pages)
	return nil
}

func (b *build) runHighlight(ctx context.Context) error {
	engine, err := newEngine(b.cfg.Highlight)
	if err != nil {
		return err
	}
	b.engine = engine

	workers := b.cfg.Highlight.Workers
	if workers < 1 {
		workers = 1
	}
	b.opts.recorder.SetWorkers(workers)

	var rewritten, unchanged atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, page := range b.pages {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			changed, err := b.engine.RewriteFile(page.Path)
			if err != nil {
				return err
			}
			if changed {
				rewritten.Add(1)
			} else {
				unchanged.Add(1)
			}
			return nil
		})
	}
	err = g.Wait()

	b.report.Rewritten = int(rewritten.Load())
	b.report.Unchanged = int(unchanged.Load())
	b.opts.recorder.AddPages(metrics.PageRewritten, b.report.Rewritten)
	b.opts.recorder.AddPages(metrics.PageUnchanged, b.report.Unchanged)
	return err
}

func (b *build) runVerify(context.Context) error {
	checker := verify.NewChecker(verifyClasses(b.cfg.Highlight)...)
	for _, page := range b.pages {
		findings, err := checker.CheckFile(page.Path)
		if err != nil {
			return err
		}
		for _, f := range findings {
			b.logger.Warn("suspicious highlight span",
				logfields.File(f.Path),
				slog.String("class", f.Class),
				slog.String("detail", f.Detail))
		}
		b.report.Findings = append(b.report.Findings, findings...)
	}
	return nil
}

func (b *build) runAssets(context.Context) error {
	pages := b.pages
	if sub := b.cfg.Docs.Subdir; sub != "" {
		// Sitemap locations are relative to the site root, not the walk root.
		pages = make([]docs.Page, len(b.pages))
		copy(pages, b.pages)
		for i := range pages {
			pages[i].RelPath = filepath.Join(sub, pages[i].RelPath)
		}
	}
	written, err := site.NewAssembler(b.cfg.Site, b.opts.outputRoot).Assemble(pages)
	if err != nil {
		return err
	}
	b.report.Assets = written
	return nil
}

// walkRoot is where pages are discovered and rewritten. docs.subdir narrows
// it below the output root.
func (b *build) walkRoot() string {
	if b.cfg.Docs.Subdir == "" {
		return b.opts.outputRoot
	}
	return filepath.Join(b.opts.outputRoot, b.cfg.Docs.Subdir)
}

// newEngine builds the rewrite engine with the built-in passes plus any
// configured extras. config.Load compiles the extras already, so a failure
// here means the configuration skipped validation.
func newEngine(cfg config.HighlightConfig) (*highlight.Engine, error) {
	engine := highlight.NewEngine()
	for _, extra := range cfg.Extra {
		pass, err := highlight.NewExtraPass(extra.Name, extra.Pattern, extra.Class)
		if err != nil {
			return nil, err
		}
		engine.Add(pass)
	}
	return engine, nil
}

// verifyClasses lists every span class the build may have produced.
func verifyClasses(cfg config.HighlightConfig) []string {
	classes := []string{highlight.ClassKeyword, highlight.ClassOperator}
	for _, extra := range cfg.Extra {
		classes = append(classes, extra.Class)
	}
	return classes
}

// classify wraps a stage failure into the build error taxonomy so callers
// can pick exit codes without inspecting sentinel chains themselves.
func classify(stageName string, err error) error {
	var be *errors.BuildError
	if stderrors.As(err, &be) {
		return err
	}
	message := stageMessages[stageName]
	if message == "" {
		message = "stage failed"
	}
	return errors.Wrap(err, stageName, categorize(err), message)
}

var stageMessages = map[string]string{
	errors.StageGenerate:  "generator did not produce a documentation tree",
	errors.StageWalk:      "could not enumerate documentation pages",
	errors.StageHighlight: "could not rewrite documentation pages",
	errors.StageVerify:    "could not verify highlight spans",
	errors.StageAssets:    "could not assemble site assets",
}

func categorize(err error) errors.ErrorCategory {
	switch {
	case stderrors.Is(err, gerrors.ErrGeneratorFailed):
		return errors.CategoryUpstream
	case stderrors.Is(err, gerrors.ErrGeneratorNotFound),
		stderrors.Is(err, gerrors.ErrGeneratorDirMissing),
		stderrors.Is(err, herrors.ErrBadPassPattern),
		stderrors.Is(err, serrors.ErrLandingPageMissing):
		return errors.CategoryConfig
	case stderrors.Is(err, derrors.ErrDocsRootMissing),
		stderrors.Is(err, derrors.ErrDocsRootNotDir),
		stderrors.Is(err, derrors.ErrDocsWalkFailed),
		stderrors.Is(err, derrors.ErrInvalidRelativePath),
		stderrors.Is(err, herrors.ErrPageReadFailed),
		stderrors.Is(err, herrors.ErrPageWriteFailed),
		stderrors.Is(err, verrors.ErrVerifyReadFailed),
		stderrors.Is(err, serrors.ErrAssetWriteFailed):
		return errors.CategoryIO
	default:
		return errors.CategoryInternal
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
