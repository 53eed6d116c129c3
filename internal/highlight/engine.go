// Package highlight rewrites generated API documentation HTML, wrapping
// keyword, modifier and operator tokens the generator leaves unstyled in the
// span classes its stylesheet already knows. The rewrite is an ordered table
// of regular-expression passes over the raw markup; pages are never parsed.
package highlight

import (
	"fmt"
	"os"

	herrors "git.home.luguber.info/inful/docpolish/internal/highlight/errors"
)

// Engine applies the ordered pass table to page content. The zero value is
// not usable; NewEngine wires the built-in table.
type Engine struct {
	passes []*Pass
}

// NewEngine returns an engine holding the built-in passes in their contract
// order: keywords, modifiers, operators, where-clause.
func NewEngine() *Engine {
	passes := make([]*Pass, len(passTable))
	copy(passes, passTable)
	return &Engine{passes: passes}
}

// Add appends a pass after the built-in table. User-supplied passes run last,
// in the order added.
func (e *Engine) Add(p *Pass) {
	e.passes = append(e.passes, p)
}

// Passes returns the names of the configured passes in execution order.
func (e *Engine) Passes() []string {
	names := make([]string, len(e.passes))
	for i, p := range e.passes {
		names[i] = p.Name
	}
	return names
}

// Apply runs every pass in order over content, each pass operating on the
// output of the previous one. It reports whether the content changed.
// Applying the sequence to its own output is byte-stable.
func (e *Engine) Apply(content string) (string, bool) {
	changed := false
	for _, p := range e.passes {
		out, c := p.apply(content)
		if c {
			changed = true
			content = out
		}
	}
	return content, changed
}

// RewriteFile applies the pass table to one file, writing the result back
// only when the content changed. The original file mode is preserved.
func (e *Engine) RewriteFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", herrors.ErrPageReadFailed, path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", herrors.ErrPageReadFailed, path, err)
	}

	out, changed := e.Apply(string(data))
	if !changed {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("%w: %s: %w", herrors.ErrPageWriteFailed, path, err)
	}
	return true, nil
}
