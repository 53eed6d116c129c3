// Package browser opens built documentation in the system browser.
package browser

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	berrors "git.home.luguber.info/inful/docpolish/internal/browser/errors"
	"git.home.luguber.info/inful/docpolish/internal/logfields"
)

// Launcher opens a target in the user's browser.
type Launcher interface {
	Open(target string) error
}

// SystemLauncher shells out to the platform opener.
type SystemLauncher struct{}

func (SystemLauncher) Open(target string) error {
	cmd, err := openCommand(target)
	if err != nil {
		return err
	}

	slog.Debug("opening documentation", logfields.Path(target))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %w", berrors.ErrOpenFailed, target, err)
	}
	// The browser outlives this process.
	return cmd.Process.Release()
}

func openCommand(target string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	default:
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return nil, fmt.Errorf("%w: xdg-open not found: %w", berrors.ErrOpenFailed, err)
		}
		return exec.Command("xdg-open", target), nil
	}
}

// NoopLauncher records the target instead of opening it.
type NoopLauncher struct {
	Target string
}

func (n *NoopLauncher) Open(target string) error {
	n.Target = target
	return nil
}

// DocIndex locates the page to open for a documentation root: the root
// index.html when present, otherwise the first crate index one level
// down. Generators like rustdoc only write a root index for multi-crate
// workspaces.
func DocIndex(root string) (string, error) {
	candidate := filepath.Join(root, "index.html")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", berrors.ErrNoIndexPage, root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(root, entry.Name(), "index.html")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", berrors.ErrNoIndexPage, root)
}
