package auth

import (
	"context"

	"github.com/authforge/authforge/pkg/auth"
)

type contextKey struct{ name string }

var userContextKey = contextKey{"auth.user"}

// UserFromContext returns the authenticated user placed in the context by
// the Middleware. The second return is false on unauthenticated requests.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(userContextKey).(*auth.User)
	return user, ok
}

func withUser(ctx context.Context, user *auth.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
