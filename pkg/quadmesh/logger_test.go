package quadmesh

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultIsSilent(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger() = nil")
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	m := unitSquare()
	if err := m.Extrude(0); err != nil {
		t.Fatal(err)
	}
	m.AddQuad(0, 0, 0, 0)
	_ = m.Offset(m.QuadCount()-1, 1)

	out := buf.String()
	if !strings.Contains(out, "quadmesh: extrude") {
		t.Errorf("log output missing extrude record:\n%s", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "offset rejected") {
		t.Errorf("log output missing degenerate warning:\n%s", out)
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
