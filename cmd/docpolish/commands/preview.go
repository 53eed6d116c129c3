package commands

import (
	"context"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpolish/internal/metrics"
	"git.home.luguber.info/inful/docpolish/internal/pipeline"
	"git.home.luguber.info/inful/docpolish/internal/preview"
)

// PreviewCmd implements the 'preview' command: build once, serve the tree,
// watch the sources and rebuild on change.
type PreviewCmd struct {
	Addr string `help:"Listen address (defaults to preview.addr)"`
	Root string `help:"Override the documentation root to serve (defaults to docs.root)"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if p.Addr != "" {
		cfg.Preview.Addr = p.Addr
	}
	outputRoot := cfg.Docs.Root
	if p.Root != "" {
		outputRoot = p.Root
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	opts, cleanup := SidecarOptions(cfg)
	defer cleanup()
	opts = append(opts, pipeline.WithRecorder(recorder))
	if p.Root != "" {
		opts = append(opts, pipeline.WithOutputRoot(p.Root))
	}

	rebuild := func(ctx context.Context) (*pipeline.Report, error) {
		return pipeline.Build(ctx, cfg, opts...)
	}
	return preview.NewServer(cfg, outputRoot, rebuild, reg).Run(ctx)
}
