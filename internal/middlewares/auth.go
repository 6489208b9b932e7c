package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"user-accounts/internal/logger"
	"user-accounts/internal/models"
)

// Authenticator resolves the identity carried by the request's access
// token. Verification is self-contained: no storage round-trip.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*models.AuthUser, error)
}

// AuthMiddleware returns a middleware that verifies the bearer token
// (header or cookie) and attaches the resolved identity to the request
// context. Missing or invalid tokens yield 401.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, err := auth.Authenticate(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					StatusCode: http.StatusUnauthorized,
					Message:    "Unauthorized request",
					Success:    false,
					Errors:     []string{},
				})
				return
			}

			ctx = SetAuthUserToContext(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var authUserKey = contextKey{}

// SetAuthUserToContext stores the resolved identity in the context
func SetAuthUserToContext(ctx context.Context, user *models.AuthUser) context.Context {
	return context.WithValue(ctx, authUserKey, user)
}

// GetAuthUserFromContext retrieves the identity attached by
// AuthMiddleware. Returns nil if the request was not authenticated.
func GetAuthUserFromContext(ctx context.Context) *models.AuthUser {
	user, _ := ctx.Value(authUserKey).(*models.AuthUser)
	return user
}
