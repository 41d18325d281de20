package psd

import (
	"context"
	"log/slog"
)

// Tracer receives structured decode diagnostics: section boundaries, parsed
// field values and recoverable anomalies. It replaces console output; the
// decoder itself never prints.
type Tracer interface {
	// Section reports entering a named section of the document at the given
	// absolute byte offset.
	Section(name string, offset int64)

	// Value reports a parsed field value.
	Value(name string, value any)

	// Warn reports a recoverable anomaly (lenient-mode invariant violation,
	// blending-range length mismatch absorbed by the extra-data reseek).
	Warn(msg string, err error)
}

// nopTracer discards everything; the default when no tracer is configured.
type nopTracer struct{}

func (nopTracer) Section(string, int64) {}
func (nopTracer) Value(string, any)     {}
func (nopTracer) Warn(string, error)    {}

// slogTracer forwards diagnostics to a slog.Logger at debug/warn level.
type slogTracer struct {
	log *slog.Logger
}

// NewSlogTracer returns a Tracer that logs through l. A nil l uses
// slog.Default().
func NewSlogTracer(l *slog.Logger) Tracer {
	if l == nil {
		l = slog.Default()
	}
	return &slogTracer{log: l}
}

func (t *slogTracer) Section(name string, offset int64) {
	t.log.LogAttrs(context.Background(), slog.LevelDebug, "section",
		slog.String("name", name), slog.Int64("offset", offset))
}

func (t *slogTracer) Value(name string, value any) {
	t.log.LogAttrs(context.Background(), slog.LevelDebug, "value",
		slog.String("name", name), slog.Any("value", value))
}

func (t *slogTracer) Warn(msg string, err error) {
	t.log.LogAttrs(context.Background(), slog.LevelWarn, msg,
		slog.Any("err", err))
}
