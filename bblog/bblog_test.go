package bblog

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestLevelNameTrace(t *testing.T) {
	if got := LevelName(LevelTrace); got != "TRACE" {
		t.Errorf("LevelName(LevelTrace) = %q, want TRACE", got)
	}
	if got := LevelName(slog.LevelInfo); got != "INFO" {
		t.Errorf("LevelName(slog.LevelInfo) = %q, want INFO", got)
	}
}

func TestNopDiscardsEverything(t *testing.T) {
	// Exercised only for the side effect of not panicking; there's nothing
	// to assert against a sink that discards.
	Nop.Trace("x")
	Nop.Debug("x")
	Nop.Info("x")
	Nop.Error("x")
}

func TestNewWithHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	l := NewWithHandler(h)

	l.Debug("should be filtered")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered out, got: %s", buf.String())
	}

	l.Info("should appear")
	if !bytes.Contains(buf.Bytes(), []byte("should appear")) {
		t.Errorf("expected info message in output, got: %s", buf.String())
	}
}

func TestNewReturnsUsableLogger(t *testing.T) {
	l := New()
	if l == nil {
		t.Fatal("New() returned nil")
	}
	l.Info("smoke test")
}
