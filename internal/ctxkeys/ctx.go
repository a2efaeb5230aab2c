package ctxkeys

import (
	"context"

	"github.com/templui/loginapi/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	IdentityKey  contextKey = "identity"
	RequestIDKey contextKey = "request_id"
)

// Identity returns the verified caller, or nil outside protected routes.
func Identity(ctx context.Context) *model.Identity {
	id, _ := ctx.Value(IdentityKey).(*model.Identity)
	return id
}

func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
