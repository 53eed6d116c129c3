package config

import (
	"log/slog"
	"testing"
)

func TestNormalizeLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{" warn ", LogLevelWarn},
		{"error", LogLevelError},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := NormalizeLogLevel(tt.input); got != tt.expected {
			t.Errorf("NormalizeLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSlogLevelMapping(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{LogLevelInfo, slog.LevelInfo},
		{LogLevelWarn, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{LogLevel("bogus"), slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := tt.level.SlogLevel(); got != tt.expected {
			t.Errorf("%v.SlogLevel() = %v, want %v", tt.level, got, tt.expected)
		}
	}
}

func TestNormalizeLogFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected LogFormat
	}{
		{"json", LogFormatJSON},
		{"JSON", LogFormatJSON},
		{"text", LogFormatText},
		{"", LogFormatText},
		{"xml", LogFormatText},
	}

	for _, tt := range tests {
		if got := NormalizeLogFormat(tt.input); got != tt.expected {
			t.Errorf("NormalizeLogFormat(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
