// Package context carries request tracing values through lifecycle operations
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// UnknownRequest is returned when no request ID was attached
	UnknownRequest = "unknown-request"
	// UnknownOperation is returned when no operation name was attached
	UnknownOperation = "unknown-operation"
)

// contextKey values are distinct by value; pointers to zero-size structs
// may share an address and would alias each other.
type contextKey int

const (
	requestIDKey contextKey = iota
	operationKey
	startTimeKey
)

// WithRequestID adds a request ID to the context, generating one when empty
func WithRequestID(parent context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	return context.WithValue(parent, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id
	}
	return UnknownRequest
}

// WithOperation adds an operation name (install, enable, ...) to the context
func WithOperation(parent context.Context, operation string) context.Context {
	return context.WithValue(parent, operationKey, operation)
}

// GetOperation retrieves the operation name from context
func GetOperation(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey).(string); ok && op != "" {
		return op
	}
	return UnknownOperation
}

// WithStartTime adds the operation start time to the context
func WithStartTime(parent context.Context, startTime time.Time) context.Context {
	return context.WithValue(parent, startTimeKey, startTime)
}

// GetDuration returns the time elapsed since the start time, or 0 when unset
func GetDuration(ctx context.Context) time.Duration {
	if t, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return time.Since(t)
	}
	return 0
}

// GenerateRequestID creates a new unique request ID
func GenerateRequestID() string {
	return "req_" + uuid.New().String()
}

// ForOperation prepares a context for one lifecycle operation: request ID
// (kept if already present), operation name and start time.
func ForOperation(parent context.Context, operation string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx := parent
	if GetRequestID(ctx) == UnknownRequest {
		ctx = WithRequestID(ctx, "")
	}
	ctx = WithOperation(ctx, operation)
	return WithStartTime(ctx, time.Now())
}
