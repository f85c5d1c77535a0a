package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNamedSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelDebug)
	root.SetOutput(&buf)

	child := root.Named("scene").Named("factory")
	child.Debug("built %s", "Earth")
	if !strings.Contains(buf.String(), "scene.factory: built Earth") {
		t.Errorf("named prefix missing: %q", buf.String())
	}

	root.SetLevel(LevelError)
	if child.Enabled(LevelDebug) {
		t.Error("child should follow parent level")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(LevelError) {
		t.Error("discard logger should not be enabled at any level")
	}
	l.Error("nothing %v", 1) // must not panic
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.log")
	l, closer, err := OpenFile(path, LevelInfo)
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	l.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, _, err := OpenFile(filepath.Join(t.TempDir(), "missing", "x.log"), LevelInfo); err == nil {
		t.Error("expected error for missing directory")
	}
}
