package httpx

import (
	"context"
	"net/http"
	"strings"

	"mangashelf/internal/logging"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// UserIDFrom retrieves the authenticated user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the user role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUser returns a new context with the user ID and role.
func ContextWithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// ScopeFrom resolves whose library a request addresses: the authenticated
// user, else the userId query parameter, else "" (unscoped).
func ScopeFrom(r *http.Request) string {
	if id := UserIDFrom(r); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("userId"))
}

func RequestIDFrom(r *http.Request) string {
	return logging.RequestIDFromContext(r.Context())
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return logging.ContextWithRequestID(ctx, requestID)
}
