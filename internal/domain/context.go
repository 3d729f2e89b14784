// Package domain holds the invoice lifecycle types, the service contract and
// the application error model shared by every layer.
package domain

import "context"

type contextKey int

const (
	requestIDContextKey contextKey = iota
)

// NewContextWithRequestID stores the request ID used to correlate log lines
// and published events.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext returns the request ID, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}
