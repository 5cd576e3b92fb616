package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("track changed", String(FieldComponent, "player"), String(FieldTrack, "rain.ogg"))

	out := buf.String()
	if !strings.Contains(out, "player: track changed") {
		t.Fatalf("expected component prefix, got %q", out)
	}
	if !strings.Contains(out, "track=rain.ogg") {
		t.Fatalf("expected track attribute, got %q", out)
	}
	if strings.Contains(out, "component=") {
		t.Fatalf("component should not repeat as key=value, got %q", out)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Warn("stream failed", String(FieldStation, "Lofi Girl"))

	out := buf.String()
	if !strings.Contains(out, `station="Lofi Girl"`) {
		t.Fatalf("expected quoted station value, got %q", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Fatalf("expected WARN label, got %q", out)
	}
}

func TestPrettyHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed, got %q", buf.String())
	}

	logger.Error("loud")
	if !strings.Contains(buf.String(), "ERROR loud") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestWithContextAddsSessionFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	ctx := WithSessionID(context.Background(), "abc-123")
	ctx = WithPhase(ctx, "work")
	WithContext(ctx, logger).Info("tick")

	out := buf.String()
	if !strings.Contains(out, "session_id=abc-123") {
		t.Fatalf("expected session id field, got %q", out)
	}
	if !strings.Contains(out, "phase=work") {
		t.Fatalf("expected phase field, got %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("ignored")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected nop logger to be disabled")
	}
}
