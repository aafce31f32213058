package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/framegrab/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleWriter(ports.LevelInfo, &out, &errOut)

	l.Debug("hidden")
	l.Info("shown %d", 1)
	l.Warn("warned")
	l.Error("failed")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("debug message should be filtered, got %q", out.String())
	}
	if !strings.Contains(out.String(), "shown 1") {
		t.Errorf("info message missing from stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "warned") || !strings.Contains(errOut.String(), "failed") {
		t.Errorf("warn and error should go to stderr: %q", errOut.String())
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var out bytes.Buffer
	l := NewConsoleWriter(ports.LevelDebug, &out, &out)

	l.WithComponent("export").Info("done")

	if got := out.String(); got != "[export] done\n" {
		t.Errorf("got %q", got)
	}
}

func TestNew_Quiet(t *testing.T) {
	if _, ok := New(ports.LevelQuiet).(*NoopLogger); !ok {
		t.Error("quiet level should produce a no-op logger")
	}
}
