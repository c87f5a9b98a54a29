// Package testserver runs the full portal over httptest for end-to-end tests.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rpggio/ideaportal/internal/app"
	"github.com/rpggio/ideaportal/internal/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type TestServer struct {
	Server   *httptest.Server
	App      *app.App
	Username string
	Password string
}

// New starts a portal on a fresh SQLite file with one Basic-auth user.
func New(t *testing.T, username, password string) *TestServer {
	t.Helper()
	return NewWithBackend(t, config.BackendSQLite, username, password)
}

// NewWithBackend is New with an explicit store backend.
func NewWithBackend(t *testing.T, backend, username, password string) *TestServer {
	t.Helper()

	dir := t.TempDir()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Transport: config.TransportConfig{Mode: "http"},
		Store: config.StoreConfig{
			Backend: backend,
			Path:    filepath.Join(dir, "ideaportal.db"),
			Dir:     filepath.Join(dir, "data"),
		},
		Auth: config.AuthConfig{
			Enabled:     true,
			DefaultUser: "guest",
			Users: []config.UserConfig{
				{Username: username, PasswordHash: string(hash)},
			},
		},
	}

	store, err := app.OpenStore(cfg.Store, nil)
	require.NoError(t, err)
	portal, err := app.New(cfg, store, nil)
	require.NoError(t, err)

	server := httptest.NewServer(portal.HTTPHandler())

	ts := &TestServer{
		Server:   server,
		App:      portal,
		Username: username,
		Password: password,
	}

	t.Cleanup(func() {
		server.Close()
		_ = portal.Close()
	})

	return ts
}

// Client returns an HTTP client that sends the test user's credentials.
func (ts *TestServer) Client() *http.Client {
	return &http.Client{Transport: &basicAuthTransport{
		username: ts.Username,
		password: ts.Password,
		base:     http.DefaultTransport,
	}}
}

type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(clone)
}
