package domain

import "context"

type contextKey int

const (
	callerKey contextKey = iota
	requestIDKey
)

// ContextWithCaller returns a context carrying the authenticated caller's participant ID.
func ContextWithCaller(ctx context.Context, participantID string) context.Context {
	return context.WithValue(ctx, callerKey, participantID)
}

// CallerFromContext returns the authenticated caller's participant ID.
func CallerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callerKey).(string)
	return id, ok && id != ""
}

// ContextWithRequestID returns a context carrying the request ID used for tracing.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID, or "" when there is none.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
