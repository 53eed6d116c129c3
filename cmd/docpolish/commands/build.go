package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docpolish/internal/browser"
	"git.home.luguber.info/inful/docpolish/internal/errors"
	"git.home.luguber.info/inful/docpolish/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Root         string `help:"Override the documentation root to process (defaults to docs.root)"`
	Workers      int    `help:"Override the number of parallel highlight workers"`
	Verify       bool   `help:"Verify highlight spans after rewriting"`
	SkipGenerate bool   `name:"skip-generate" help:"Reuse the existing documentation tree instead of running the generator"`
	Open         bool   `help:"Open the polished documentation when the build succeeds"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if b.Workers > 0 {
		cfg.Highlight.Workers = b.Workers
	}
	if b.Verify {
		cfg.Highlight.Verify = true
	}
	if b.SkipGenerate {
		cfg.Generator.Skip = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts, cleanup := SidecarOptions(cfg)
	defer cleanup()
	if b.Root != "" {
		opts = append(opts, pipeline.WithOutputRoot(b.Root))
	}

	rep, err := pipeline.Build(ctx, cfg, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("Polished %d pages (%d rewritten, %d unchanged) in %s\n",
		rep.Pages, rep.Rewritten, rep.Unchanged, rep.Duration.Round(time.Millisecond))
	fmt.Println("Documentation root:", rep.Root)
	if n := len(rep.Findings); n > 0 {
		fmt.Printf("Verification reported %d findings; see the log for details\n", n)
	}

	if b.Open {
		return openDocs(rep.Root)
	}
	return nil
}

// openDocs resolves the index page under root and hands it to the platform
// opener.
func openDocs(root string) error {
	index, err := browser.DocIndex(root)
	if err != nil {
		return errors.Wrap(err, "open", errors.CategoryIO, "no index page to open")
	}
	if err := (browser.SystemLauncher{}).Open(index); err != nil {
		return errors.Wrap(err, "open", errors.CategoryInternal, "could not launch browser")
	}
	fmt.Println("Opening", index)
	return nil
}
