package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Level:     slog.LevelDebug,
		Component: ComponentHTTP,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestFromContextReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf).With(FieldRequestID, "req_abc123")

	ctx := IntoContext(context.Background(), logger)
	got := FromContext(ctx)

	got.InfoContext(ctx, "handled")

	out := buf.String()
	if !strings.Contains(out, "request_id=req_abc123") {
		t.Errorf("expected request id on the log line, got %q", out)
	}
	if !strings.Contains(out, "component=http") {
		t.Errorf("expected component attribute, got %q", out)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	got := FromContext(context.Background())
	if got == nil {
		t.Fatal("expected a fallback logger, got nil")
	}
	if got.Component() != ComponentApp {
		t.Errorf("expected fallback component %q, got %q", ComponentApp, got.Component())
	}
}

func TestWithPreservesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	derived := logger.With(FieldRequestID, "req_1")
	if derived.Component() != logger.Component() {
		t.Errorf("With changed component: %q != %q", derived.Component(), logger.Component())
	}
}
