// Package obscontext carries request-scoped correlation values without
// creating import cycles between the logger, tracing and server packages.
package obscontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	ownerKeyKey  contextKey = "owner_key"
)

// WithRequestID stores the request correlation id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request correlation id, or empty.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithOwnerKey stores the draft owner key a request operates on.
func WithOwnerKey(ctx context.Context, ownerKey string) context.Context {
	return context.WithValue(ctx, ownerKeyKey, ownerKey)
}

// OwnerKeyFromContext returns the draft owner key, or empty.
func OwnerKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ownerKeyKey).(string); ok {
		return v
	}
	return ""
}
