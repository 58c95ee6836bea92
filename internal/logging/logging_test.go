package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupWithWriterJSONLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(Options{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Fatalf("info event should be filtered at warn level: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("expected warn event in output: %s", buf.String())
	}
}

func TestSetupWithWriterFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(Options{Level: "nonsense", Format: "json"}, &buf)
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
}

func TestTraceHookAddsSpanFields(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	logger := SetupWithWriter(Options{Level: "info", Format: "json"}, &buf)
	logger.Info().Ctx(ctx).Msg("inside span")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id=%v, want %s", entry["trace_id"], span.SpanContext().TraceID())
	}
	if entry["span_id"] != span.SpanContext().SpanID().String() {
		t.Fatalf("span_id=%v, want %s", entry["span_id"], span.SpanContext().SpanID())
	}
}

func TestTraceHookSkipsWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(Options{Level: "info", Format: "json"}, &buf)
	logger.Info().Ctx(context.Background()).Msg("no span")

	if bytes.Contains(buf.Bytes(), []byte("trace_id")) {
		t.Fatalf("unexpected trace_id without span: %s", buf.String())
	}
}
