package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	if ParseFormatter("json") != log.JSONFormatter {
		t.Error("json formatter not recognized")
	}
	if ParseFormatter("logfmt") != log.LogfmtFormatter {
		t.Error("logfmt formatter not recognized")
	}
	if ParseFormatter("anything") != log.TextFormatter {
		t.Error("unknown formatter should default to text")
	}
}

func TestFromConfigWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig("debug", "logfmt", &buf)
	logger.Debug("delivered", "kind", "added", "id", "abc")

	out := buf.String()
	for _, want := range []string{"delivered", "kind=added", "id=abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig("warn", "text", &buf)
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn missing from %q", buf.String())
	}
}
