package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rpggio/ideaportal/internal/domain/user"
)

type userKey struct{}

// Authenticator verifies a username and password.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*user.User, error)
}

// UserFromContext returns the authenticated username from context, if present.
func UserFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(userKey{}).(string)
	return username, ok
}

// WithUser stores a username in the context.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey{}, username)
}

// BasicAuthMiddleware enforces HTTP Basic authentication.
func BasicAuthMiddleware(auth Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			username = strings.TrimSpace(username)
			if !ok || username == "" {
				w.Header().Set("WWW-Authenticate", `Basic realm="ideaportal"`)
				writeError(w, http.StatusUnauthorized, "missing credentials")
				return
			}

			u, err := auth.Authenticate(r.Context(), username, password)
			if err != nil {
				if logger != nil {
					logger.Warn("authentication failed", "username", username, "remote", r.RemoteAddr)
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="ideaportal"`)
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u.Username)))
		})
	}
}

// DefaultUserMiddleware injects a fixed identity when auth is disabled.
func DefaultUserMiddleware(username string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), username)))
		})
	}
}
