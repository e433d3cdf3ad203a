package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Log attribute keys.
const (
	LogKeyTraceID = "trace_id"
	LogKeySpanID  = "span_id"
	LogKeySampled = "sampled"
	LogKeyService = "service"
	LogKeyVersion = "version"
	LogKeyEnv     = "env"
	LogKeyMode    = "mode"
)

// TracingHandler decorates records with the active span and with the
// process identity taken from [Config]. The identity is bound to the inner
// handler once, before any group is opened.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler binds the identity in cfg to inner.
// Empty version and environment are omitted.
func NewTracingHandler(inner slog.Handler, cfg Config) *TracingHandler {
	identity := []slog.Attr{
		slog.String(LogKeyService, cfg.ServiceName),
		slog.String(LogKeyMode, string(cfg.Mode)),
	}

	if cfg.ServiceVersion != "" {
		identity = append(identity, slog.String(LogKeyVersion, cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		identity = append(identity, slog.String(LogKeyEnv, cfg.Environment))
	}

	return &TracingHandler{inner: inner.WithAttrs(identity)}
}

func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle appends the span identifiers when ctx carries a valid span.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record = record.Clone()
		record.AddAttrs(
			slog.String(LogKeyTraceID, sc.TraceID().String()),
			slog.String(LogKeySpanID, sc.SpanID().String()),
			slog.Bool(LogKeySampled, sc.IsSampled()),
		)
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("log record: %w", err)
	}

	return nil
}

func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}

// NewLogger builds the process logger writing to w: a text or JSON handler
// at cfg.LogLevel behind a [TracingHandler].
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	if cfg.LogJSON {
		return slog.New(NewTracingHandler(slog.NewJSONHandler(w, opts), cfg))
	}

	return slog.New(NewTracingHandler(slog.NewTextHandler(w, opts), cfg))
}
