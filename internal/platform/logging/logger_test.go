package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoggerWritesFieldsAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONTo(zapcore.AddSync(&buf), LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.With("component", "roster").WarnContext(ctx, "slot write failed", "slot", "roster", "error", errors.New("boom"))
	logger.Debug("dropped below level")

	out := buf.String()
	for _, want := range []string{
		`"msg":"slot write failed"`,
		`"component":"roster"`,
		`"slot":"roster"`,
		`"error":"boom"`,
		`"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`,
		`"span_id":"00f067aa0ba902b7"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output, got %s", want, out)
		}
	}
	if strings.Contains(out, "dropped below level") {
		t.Fatalf("debug entry should be filtered at info level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unsupported level")
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	logger.ErrorContext(context.Background(), "still no panic")
}

func TestZapFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONTo(zapcore.AddSync(&buf), LevelDebug)

	logger.Named("attendance").Info("tally computed",
		zap.Int("available", 11),
		"event_id", "evt-1",
		42, "no key",
		"dangling",
	)

	out := buf.String()
	for _, want := range []string{
		`"logger":"attendance"`,
		`"available":11`,
		`"event_id":"evt-1"`,
		`"arg":"no key"`,
		`"dangling":null`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output, got %s", want, out)
		}
	}
}

func TestEnabledAndSyncOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONTo(zapcore.AddSync(&buf), LevelWarn)

	if logger.Enabled(LevelInfo) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Enabled(LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("second sync: %v", err)
	}
}
