package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ideaportal/internal/domain/user"
)

type contextKey int

const usernameKey contextKey = iota

// getUsername extracts the caller's username from context.
func getUsername(ctx context.Context) string {
	v, _ := ctx.Value(usernameKey).(string)
	return v
}

// Authenticator verifies a username and password.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*user.User, error)
}

// authMiddleware implements HTTP Basic authentication as MCP middleware.
func authMiddleware(auth Authenticator) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			username, password, ok := basicAuth(extra.Header)
			if !ok || username == "" {
				return nil, fmt.Errorf("unauthorized: missing basic credentials")
			}

			u, err := auth.Authenticate(ctx, username, password)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}

			ctx = context.WithValue(ctx, usernameKey, u.Username)
			return next(ctx, method, req)
		}
	}
}

// noAuthMiddleware injects a default user when auth is disabled.
func noAuthMiddleware(defaultUser string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, usernameKey, defaultUser)
			return next(ctx, method, req)
		}
	}
}

func basicAuth(header http.Header) (string, string, bool) {
	r := &http.Request{Header: header}
	username, password, ok := r.BasicAuth()
	return strings.TrimSpace(username), password, ok
}
