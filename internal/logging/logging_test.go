package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level messages written: %q", out)
	}
	if !strings.Contains(out, "shown 3") || !strings.Contains(out, "shown 4") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected slog level attribute, got %q", out)
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelError)
	l.SetOutput(&buf)

	l.Info("before")
	l.SetLevel(LevelDebug)
	l.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Error("info logged while level was error")
	}
	if !strings.Contains(out, "after") {
		t.Error("debug not logged after lowering level")
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo)
	l.SetOutput(&buf)

	child := l.With("feed", "tle")
	child.Info("fetched %d records", 3)

	out := buf.String()
	if !strings.Contains(out, "feed=tle") || !strings.Contains(out, "fetched 3 records") {
		t.Errorf("child attrs missing: %q", out)
	}

	// Child follows the parent's level.
	buf.Reset()
	l.SetLevel(LevelError)
	child.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("child ignored parent level: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	// Must not panic or write anywhere.
	l.Error("nothing %s", "here")
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" || Level(99).String() != "UNKNOWN" {
		t.Error("unexpected level names")
	}
}
