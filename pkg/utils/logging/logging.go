package logging

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

type ctxLoggerKey struct{}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Default returns the process wide logger configured by the CLI.
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process wide logger. It also replaces slog's default logger.
func SetDefault(logger *slog.Logger) {
	defaultLogger.Store(logger)
	slog.SetDefault(logger)
}

// With returns a child context carrying the logger
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From returns the logger bound to ctx, or Default() if none.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
