package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestBuildError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuildError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(StageConfig, CategoryConfig, "configuration invalid"),
			expected: "config: configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("exit status 101"), StageGenerate, CategoryUpstream, "generator failed"),
			expected: "generate: generator failed: exit status 101",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(StageConfig, CategoryConfig, "config error")
	ioErr := New(StageWalk, CategoryIO, "walk error")
	wrapped := fmt.Errorf("outer: %w", ioErr)
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match io category", configErr, CategoryIO, false},
		{"io error matches io category", ioErr, CategoryIO, true},
		{"wrapped io error still matches", wrapped, CategoryIO, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	if got := CategoryOf(New(StageGenerate, CategoryUpstream, "boom")); got != CategoryUpstream {
		t.Errorf("CategoryOf() = %v, want %v", got, CategoryUpstream)
	}
	if got := CategoryOf(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("CategoryOf() = %v, want %v", got, CategoryInternal)
	}
}

func TestStageOf(t *testing.T) {
	err := Wrap(stdErrors.New("disk full"), StageAssets, CategoryIO, "copy failed")
	if got := StageOf(fmt.Errorf("run aborted: %w", err)); got != StageAssets {
		t.Errorf("StageOf() = %q, want %q", got, StageAssets)
	}
	if got := StageOf(stdErrors.New("plain")); got != "" {
		t.Errorf("StageOf() = %q, want empty", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stdErrors.New("root cause")
	err := Wrap(cause, StageHighlight, CategoryIO, "rewrite failed")
	if !stdErrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause through BuildError")
	}
}
