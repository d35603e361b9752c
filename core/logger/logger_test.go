package logger

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHelpersBeforeInit(t *testing.T) {
	// Logging helpers must be safe no-ops before Init so library code can log
	// unconditionally.
	if Component("flow") != nil {
		t.Fatal("expected nil component logger before Init")
	}
	Debug(context.Background(), "flow", "noop")
	Info(context.Background(), "flow", "noop")
}

func TestStatus(t *testing.T) {
	if got := Status(nil); got != "ok" {
		t.Fatalf("Status(nil) = %s", got)
	}
	if got := Status(errors.New("boom")); got != "error" {
		t.Fatalf("Status(err) = %s", got)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("negative duration should clamp to 0, got %v", got)
	}
	if got := RoundMS(1500 * time.Microsecond); got != 2*time.Millisecond {
		t.Fatalf("RoundMS = %v", got)
	}
}
