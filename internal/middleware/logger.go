package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/fatura/internal/domain"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// WithRequestLogger stores a logger carrying method, path and request id in
// the request context. Place it after RequestID.
func WithRequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if id := domain.RequestIDFromContext(r.Context()); id != "" {
				logger = logger.With(slog.String("request_id", id))
			}

			ctx := context.WithValue(r.Context(), loggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger returns the request-scoped logger, the first fallback, or
// slog.Default.
func GetLogger(ctx context.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}
