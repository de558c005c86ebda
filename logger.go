package colorquant

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with field helpers for quantization runs so
// every record uses the same attribute names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON records to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithK adds the cluster count to every record.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// WithSamples adds the sample count to every record.
func (l *Logger) WithSamples(n int) *Logger {
	return &Logger{Logger: l.Logger.With("samples", n)}
}

// LogIteration logs the state after one assign+update pass.
func (l *Logger) LogIteration(ctx context.Context, iteration int, inertia float64, empty int) {
	l.DebugContext(ctx, "iteration completed",
		"iteration", iteration,
		"inertia", inertia,
		"empty_clusters", empty,
	)
}

// LogRun logs the outcome of a quantize call.
func (l *Logger) LogRun(ctx context.Context, iterations int, inertia float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "quantize failed",
			"iterations", iterations,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "quantize completed",
		"iterations", iterations,
		"inertia", inertia,
	)
}
