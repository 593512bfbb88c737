package logger

import (
	"context"
	"log/slog"

	"github.com/KirilStrezikozin/mini-chat-backend/pkg/middleware"
)

// FromContext returns the request-scoped logger installed by
// middleware.RequestLogger, or the process default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(middleware.LoggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
