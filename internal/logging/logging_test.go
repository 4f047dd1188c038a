package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewQuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("loaded tasks", "records", 3)
	if buf.Len() != 0 {
		t.Fatalf("expected no debug output, got %q", buf.String())
	}

	logger.Warn("slow disk")
	if !strings.Contains(buf.String(), "slow disk") {
		t.Fatalf("expected warning in output, got %q", buf.String())
	}
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("loaded tasks", "records", 3)
	out := buf.String()
	if !strings.Contains(out, "loaded tasks") || !strings.Contains(out, "records=3") {
		t.Fatalf("expected debug output with fields, got %q", out)
	}
	if !strings.Contains(out, "task-cli") {
		t.Fatalf("expected prefix in output, got %q", out)
	}
}
