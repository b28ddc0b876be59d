package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/auth"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware resolves the bearer token into a domain.User on the
// request context. Use cases read the actor from there for audit entries.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "authorization header must be a bearer token")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.ContextWithUser(r.Context(), claims.User())))
		})
	}
}

// RequireRole rejects callers whose role ranks below minRole.
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !user.Role.Satisfies(minRole) {
				writeError(w, http.StatusForbidden, "role "+string(user.Role)+" cannot perform this operation")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
