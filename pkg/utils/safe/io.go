// Package safe provides helpers for I/O cleanup paths whose errors can only be logged.
package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/aegis/pkg/utils/logging"
)

// Close closes closer and logs a failure with the given attributes.
// Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer, attrs ...any) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close", append(attrs, slog.Any("error", err))...)
	}
}

// Copy streams src into dst, typically an HTTP response, and returns the bytes written.
// A failure is logged because the response header has already been sent.
func Copy(ctx context.Context, dst io.Writer, src io.Reader) int64 {
	n, err := io.Copy(dst, src)
	if err != nil {
		logging.From(ctx).Warn("failed to copy stream", slog.Int64("written", n), slog.Any("error", err))
	}
	return n
}

// Write writes data to w and logs a failure. Nil writers are ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("failed to write", slog.Int("size", len(data)), slog.Any("error", err))
	}
}
