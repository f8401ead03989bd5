package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/ccirating/pkg/utils/logging"
)

// Close closes c and logs a failure tagged with target, e.g. "export file".
// A nil c is a no-op.
func Close(ctx context.Context, c io.Closer, target string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("Failed to close",
			slog.String("target", target),
			slog.Any("error", err),
		)
	}
}

// Write is for response bodies whose status is already sent, so a failure can only be logged.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err != nil {
		logging.From(ctx).Warn("Failed to write response body",
			slog.Int("written", n),
			slog.Int("size", len(data)),
			slog.Any("error", err),
		)
	}
}
