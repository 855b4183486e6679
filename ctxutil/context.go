// Package ctxutil carries request-scoped values through context.Context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const (
	traceIDCtxKey ctxKey = "trace_id"
	userIDCtxKey  ctxKey = "user_id"
	roleCtxKey    ctxKey = "user_role"
)

// Keys used on *gin.Context.
const (
	TraceIDKey = "trace_id"
	UserIDKey  = "user_id"
	RoleKey    = "user_role"
)

// GetTraceID gets trace id from the context, falling back to the active span.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDCtxKey).(string); ok && traceID != "" {
		return traceID
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// SetTraceID sets trace id to context.Context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDCtxKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}

// SetUser stores the authenticated user id and role.
func SetUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDCtxKey, userID)
	return context.WithValue(ctx, roleCtxKey, role)
}

// GetUserID gets the authenticated user id.
func GetUserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDCtxKey).(string); ok {
		return uid
	}
	return ""
}

// GetUserRole gets the authenticated user role.
func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(roleCtxKey).(string); ok {
		return role
	}
	return ""
}
