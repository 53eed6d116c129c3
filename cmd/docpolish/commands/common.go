package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpolish/internal/config"
	"git.home.luguber.info/inful/docpolish/internal/errors"
	"git.home.luguber.info/inful/docpolish/internal/logfields"
	"git.home.luguber.info/inful/docpolish/internal/notify"
	"git.home.luguber.info/inful/docpolish/internal/pipeline"
	"git.home.luguber.info/inful/docpolish/internal/store"
)

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docpolish.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Run the generator and polish the documentation tree"`
	Open    OpenCmd    `cmd:"" help:"Open the polished documentation in the browser"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Check   CheckCmd   `cmd:"" help:"Dry-run: report pages a build would rewrite, without writing"`
	Preview PreviewCmd `cmd:"" help:"Serve the documentation locally and rebuild on change"`
	History HistoryCmd `cmd:"" help:"List recent builds from the history store"`
}

// AfterApply runs after flag parsing; set up logging once. The configured
// level and format are applied later, when a command loads the config.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig loads and validates the configuration, then applies its logging
// section. Configuration failures map to the config exit code.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, errors.Wrap(err, errors.StageConfig, errors.CategoryConfig, "configuration rejected")
	}
	c.applyLogging(cfg)
	return cfg, nil
}

func (c *CLI) applyLogging(cfg *config.Config) {
	level := config.NormalizeLogLevel(cfg.Logging.Level).SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if config.NormalizeLogFormat(cfg.Logging.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// SidecarOptions assembles the optional pipeline collaborators the
// configuration enables: the history store and the build-event notifier.
// Neither is allowed to stop a build, so setup failures degrade to warnings.
// The returned cleanup closes whatever was opened.
func SidecarOptions(cfg *config.Config) ([]pipeline.Option, func()) {
	var opts []pipeline.Option
	var cleanups []func()

	if cfg.History.Enabled {
		st, err := store.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			slog.Warn("history store unavailable; runs will not be recorded",
				logfields.Path(cfg.History.Path),
				logfields.Error(err))
		} else {
			opts = append(opts, pipeline.WithStore(st))
			cleanups = append(cleanups, func() {
				if err := st.Close(); err != nil {
					slog.Warn("closing history store failed", logfields.Error(err))
				}
			})
		}
	}

	if cfg.Notify.URL != "" {
		nt, err := notify.NewNATSNotifier(cfg.Notify.URL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("notify connection failed; continuing without events",
				logfields.URL(cfg.Notify.URL),
				logfields.Error(err))
		} else {
			opts = append(opts, pipeline.WithNotifier(nt))
			cleanups = append(cleanups, func() {
				if err := nt.Close(); err != nil {
					slog.Warn("closing notify connection failed", logfields.Error(err))
				}
			})
		}
	}

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return opts, cleanup
}

// Exit codes by failure category.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitConfig   = 2
	ExitIO       = 3
	ExitUpstream = 4
)

// ExitCode maps an error to the process exit code via its build category.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch errors.CategoryOf(err) {
	case errors.CategoryConfig:
		return ExitConfig
	case errors.CategoryIO:
		return ExitIO
	case errors.CategoryUpstream:
		return ExitUpstream
	default:
		return ExitInternal
	}
}
