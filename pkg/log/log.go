// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogzerolog "github.com/samber/slog-zerolog/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NewDefaultLogger creates the structured logger used across the control core:
// a human-readable zerolog console writer fanned out with a handler that
// records every log record as an event on the active trace span, so a
// dispatch cycle's logs and its span stay correlated without a network
// exporter.
func NewDefaultLogger() *slog.Logger {
	zeroLogger := zerolog.
		New(zerolog.NewConsoleWriter()).
		With().
		Timestamp().
		Logger()

	return slog.New(slogmulti.Fanout(
		slogzerolog.Option{Level: slog.LevelDebug, Logger: &zeroLogger}.NewZerologHandler(),
		&spanEventHandler{},
	))
}

// spanEventHandler is a slog.Handler that turns log records into span events
// on whatever trace.Span is present in the record's context, if any. It never
// creates spans or exporters itself — it is a passenger on spans the caller
// already started.
type spanEventHandler struct {
	attrs []slog.Attr
	group string
}

func (h *spanEventHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *spanEventHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}
	attrs := make([]attribute.KeyValue, 0, r.NumAttrs()+len(h.attrs)+1)
	attrs = append(attrs, attribute.String("level", r.Level.String()))
	for _, a := range h.attrs {
		attrs = append(attrs, slogAttrToOtel(h.group, a))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, slogAttrToOtel(h.group, a))
		return true
	})
	span.AddEvent(r.Message, trace.WithAttributes(attrs...))
	return nil
}

func (h *spanEventHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := &spanEventHandler{group: h.group}
	n.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return n
}

func (h *spanEventHandler) WithGroup(name string) slog.Handler {
	n := &spanEventHandler{attrs: h.attrs, group: name}
	return n
}

func slogAttrToOtel(group string, a slog.Attr) attribute.KeyValue {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	return attribute.String(key, a.Value.String())
}

// GetGlobalLogger returns a structured logger configured for process-wide use.
// It is identical to NewDefaultLogger; callers that need a single shared
// instance should construct one at boot and thread it through explicitly
// rather than calling this repeatedly.
func GetGlobalLogger() *slog.Logger {
	return NewDefaultLogger()
}
