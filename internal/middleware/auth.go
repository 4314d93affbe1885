package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daybookhq/daybook-backend/internal/auth"
	"github.com/daybookhq/daybook-backend/internal/models"
)

// AccountLoader loads an account by ID with the password excluded. The
// user service satisfies it; tests substitute a fake.
type AccountLoader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RequireAuth resolves the caller from the bearer credential and attaches
// the loaded account to the request context. Every failure — missing,
// malformed or expired token, unknown or deactivated account — produces
// the same generic 401 so responses carry no account-existence signal.
// The actual reason is logged server-side.
func RequireAuth(tokens *auth.TokenManager, accounts AccountLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := auth.TokenFromRequest(r)
			if err != nil {
				denyAuth(w, r, "no credential")
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				denyAuth(w, r, err.Error())
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				denyAuth(w, r, "malformed subject")
				return
			}

			user, err := accounts.FindByID(r.Context(), userID)
			if err != nil {
				denyAuth(w, r, "account not found")
				return
			}
			if !user.IsActive {
				denyAuth(w, r, "account inactive")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), user)))
		})
	}
}

// RequireAdmin allows only admin identities through. Composes after
// RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFrom(r.Context())
		if !ok {
			denyAuth(w, r, "no identity in context")
			return
		}
		if !identity.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Access denied. Admin privileges required.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func denyAuth(w http.ResponseWriter, r *http.Request, reason string) {
	log.Debug().Str("path", r.URL.Path).Str("reason", reason).Msg("authentication rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Authentication required",
	})
}
