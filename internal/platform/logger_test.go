package platform

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"log/slog"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "", want: slog.LevelInfo},
		{input: "info", want: slog.LevelInfo},
		{input: "debug", want: slog.LevelDebug},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "bad", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("expected %v, got %v for %q", tt.want, got, tt.input)
		}
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{input: "", want: LogFormatText},
		{input: "text", want: LogFormatText},
		{input: "json", want: LogFormatJSON},
		{input: "bad", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLogFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("expected %v, got %v for %q", tt.want, got, tt.input)
		}
	}
}

func TestWithLocalDebugFile(t *testing.T) {
	var console bytes.Buffer
	base, err := ConfigureLogger("info", "text", &console)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), DebugLogFile)

	logger, closeFn, err := WithLocalDebugFile(base, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("debug only")
	logger.Info("everywhere", "repo", "repo1")
	if err := closeFn(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if bytes.Contains(console.Bytes(), []byte("debug only")) {
		t.Fatalf("console should not receive debug records")
	}
	if !bytes.Contains(console.Bytes(), []byte("everywhere")) {
		t.Fatalf("console should receive info records")
	}
	file, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if !bytes.Contains(file, []byte("debug only")) || !bytes.Contains(file, []byte(`"repo":"repo1"`)) {
		t.Fatalf("debug file missing records: %s", file)
	}
}
