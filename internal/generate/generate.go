// Package generate runs the upstream documentation generator.
//
// The generator produces the HTML tree every later stage consumes, so it
// runs first and its failure is terminal: when the generator exits
// non-zero, no page is touched and no asset is written.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/docpolish/internal/config"
	gerrors "git.home.luguber.info/inful/docpolish/internal/generate/errors"
	"git.home.luguber.info/inful/docpolish/internal/logfields"
)

// Generator abstracts how the documentation tree is produced. Swapping the
// external binary (BinaryGenerator) for a no-op keeps tests and reuse of a
// pre-built tree out of the orchestration code.
type Generator interface {
	Generate(ctx context.Context) error
}

// BinaryGenerator invokes an external command such as `cargo doc`.
type BinaryGenerator struct {
	Command string
	Args    []string
	Dir     string
}

// NewBinaryGenerator builds a BinaryGenerator from the generator config.
func NewBinaryGenerator(cfg config.GeneratorConfig) *BinaryGenerator {
	return &BinaryGenerator{
		Command: cfg.Command,
		Args:    cfg.Args,
		Dir:     cfg.Dir,
	}
}

func (b *BinaryGenerator) Generate(ctx context.Context) error {
	if _, err := exec.LookPath(b.Command); err != nil {
		return fmt.Errorf("%w: %s: %w", gerrors.ErrGeneratorNotFound, b.Command, err)
	}

	if stat, err := os.Stat(b.Dir); err != nil {
		return fmt.Errorf("%w: %s: %w", gerrors.ErrGeneratorDirMissing, b.Dir, err)
	} else if !stat.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", gerrors.ErrGeneratorDirMissing, b.Dir)
	}

	cmd := exec.CommandContext(ctx, b.Command, b.Args...)
	cmd.Dir = b.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running documentation generator",
		logfields.Command(b.commandLine()),
		logfields.Path(b.Dir))

	err := cmd.Run()

	if out := stdout.String(); out != "" {
		slog.Debug("generator stdout", "output", out)
	}
	if errOut := stderr.String(); errOut != "" {
		slog.Debug("generator stderr", "output", errOut)
	}

	if err != nil {
		// Generators report diagnostics on either stream, so fold both into
		// the error.
		output := strings.TrimSpace(strings.Join(nonEmpty(stdout.String(), stderr.String()), "\n"))
		if output != "" {
			return fmt.Errorf("%w: %s: %w: %s", gerrors.ErrGeneratorFailed, b.commandLine(), err, output)
		}
		return fmt.Errorf("%w: %s: %w", gerrors.ErrGeneratorFailed, b.commandLine(), err)
	}

	return nil
}

func (b *BinaryGenerator) commandLine() string {
	return strings.Join(append([]string{b.Command}, b.Args...), " ")
}

func nonEmpty(parts ...string) []string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return kept
}

// NoopGenerator produces nothing; used when an existing tree is reused.
type NoopGenerator struct{}

func (NoopGenerator) Generate(context.Context) error {
	slog.Debug("generator skipped, reusing existing documentation tree")
	return nil
}

// ForConfig selects the generator the config implies.
func ForConfig(cfg config.GeneratorConfig) Generator {
	if cfg.Skip {
		return NoopGenerator{}
	}
	return NewBinaryGenerator(cfg)
}
