package auth

import (
	"context"

	"github.com/daybookhq/daybook-backend/internal/models"
)

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity attaches the resolved account to the request context.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// IdentityFrom returns the account resolved by the auth middleware, if any.
func IdentityFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey).(*models.User)
	return user, ok && user != nil
}
