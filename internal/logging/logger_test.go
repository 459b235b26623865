package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := New("test", LevelDebug, &buf)

	l.Info("translated", "count", 3, "lang", "en")

	out := buf.String()
	for _, want := range []string{"[test] ", "[INFO] translated", " count=3", " lang=en"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New("test", LevelWarn, &buf)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the level were written: %q", out)
	}
	if strings.Count(out, "shown") != 2 {
		t.Errorf("expected two messages, got %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := New("test", LevelInfo, &buf)
	run := base.With("run", "abc")

	run.Info("start", "n", 1)
	base.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "start run=abc n=1") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if strings.Contains(lines[1], "run=") {
		t.Errorf("With must not change the parent logger: %q", lines[1])
	}
}

func TestLogger_OddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	New("test", LevelInfo, &buf).Info("msg", "k", "v", "dangling")

	if strings.Contains(buf.String(), "dangling") {
		t.Errorf("dangling key should be dropped: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{" error ", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(LevelError) {
		t.Error("Discard logger should not be enabled at any level")
	}
	l.Error("nothing happens")
}
