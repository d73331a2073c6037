package mixture

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with training-specific helpers so that records
// carry consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithComponents adds a components field to the logger.
func (l *Logger) WithComponents(k int) *Logger {
	return &Logger{Logger: l.Logger.With("components", k)}
}

// LogRound logs the outcome of one training round.
func (l *Logger) LogRound(ctx context.Context, round int, r Round, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training round failed",
			"round", round,
			"components", r.Components,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "training round completed",
		"round", round,
		"components", r.Components,
		"iterations", len(r.LogProbs),
		"log_prob", r.FinalLogProb(),
	)
}
