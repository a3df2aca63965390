package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/scrybe/scrybe-backend/internal/domain"
)

type contextKey string

const userKey contextKey = "user"

type tokenVerifier interface {
	Verify(tokenStr string) (username string, err error)
}

type userGetter interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Auth returns middleware that validates the Bearer JWT, resolves its subject
// to an existing user, and injects that user into the request context.
// Tokens whose subject no longer exists are rejected like any other bad token.
func Auth(verifier tokenVerifier, users userGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			username, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			u, err := users.GetByUsername(r.Context(), username)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}
