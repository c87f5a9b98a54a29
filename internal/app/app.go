// Package app assembles the store, services and transports from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ideaportal/internal/config"
	"github.com/rpggio/ideaportal/internal/csvstore"
	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/user"
	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/rpggio/ideaportal/internal/mcp"
	"github.com/rpggio/ideaportal/internal/metrics"
	"github.com/rpggio/ideaportal/internal/sqlite"
	"github.com/rpggio/ideaportal/internal/transport"
)

// Store is one persistence backend.
type Store struct {
	Ideas      idea.Repository
	Votes      vote.Repository
	Activities activity.Repository
	Health     func(ctx context.Context) error
	Close      func() error
}

// OpenStore opens the configured backend, creating empty tables on first run.
func OpenStore(cfg config.StoreConfig, logger *slog.Logger) (*Store, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		s, err := csvstore.Open(cfg.Dir, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Ideas:      csvstore.NewIdeaRepository(s),
			Votes:      csvstore.NewVoteRepository(s),
			Activities: csvstore.NewActivityRepository(s),
			Health: func(context.Context) error {
				_, err := os.Stat(s.Dir())
				return err
			},
			Close: func() error { return nil },
		}, nil
	case config.BackendSQLite, "":
		if err := ensureDBDir(cfg.Path); err != nil {
			return nil, fmt.Errorf("failed to prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			Ideas:      sqlite.NewIdeaRepository(db),
			Votes:      sqlite.NewVoteRepository(db),
			Activities: sqlite.NewActivityRepository(db),
			Health:     db.Ping,
			Close:      db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func ensureDBDir(path string) error {
	if path == "" || path == ":memory:" || filepath.Dir(path) == "." {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// App holds the wired services.
type App struct {
	Ideas    *idea.Service
	Votes    *vote.Service
	Activity *activity.Service
	Users    *user.Service
	Metrics  *metrics.Metrics
	MCP      *sdkmcp.Server

	cfg    config.Config
	store  *Store
	logger *slog.Logger
}

// New wires services over store according to cfg.
func New(cfg config.Config, store *Store, logger *slog.Logger) (*App, error) {
	users := make([]user.User, 0, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		users = append(users, user.User{
			Username:     u.Username,
			DisplayName:  u.DisplayName,
			PasswordHash: u.PasswordHash,
		})
	}
	userSvc, err := user.NewService(users, logger)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	if cfg.Auth.Enabled && cfg.Transport.Mode != "stdio" && userSvc.Count() == 0 {
		return nil, fmt.Errorf("auth is enabled but no users are configured")
	}

	a := &App{
		Ideas:    idea.NewService(store.Ideas, store.Activities, logger),
		Votes:    vote.NewService(store.Votes, store.Ideas, store.Activities, logger),
		Activity: activity.NewService(store.Activities, logger),
		Users:    userSvc,
		Metrics:  metrics.New(),
		cfg:      cfg,
		store:    store,
		logger:   logger,
	}

	a.MCP = mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Ideas:    a.Ideas,
			Votes:    a.Votes,
			Activity: a.Activity,
		},
		Recorder:      a.Metrics,
		Authenticator: userSvc,
		AuthEnabled:   cfg.Auth.Enabled,
		DefaultUser:   cfg.Auth.DefaultUser,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	return a, nil
}

// HTTPHandler builds the REST router with the MCP endpoint mounted.
func (a *App) HTTPHandler() http.Handler {
	auth := transport.DefaultUserMiddleware(a.cfg.Auth.DefaultUser)
	if a.cfg.Auth.Enabled {
		auth = transport.BasicAuthMiddleware(a.Users, a.logger)
	}

	var rateLimit func(http.Handler) http.Handler
	if a.cfg.Server.RateLimitRPS > 0 {
		rateLimit = transport.NewRateLimiter(a.cfg.Server.RateLimitRPS, a.cfg.Server.RateLimitBurst).Middleware
	}

	return transport.NewServer(transport.Config{
		Ideas:          a.Ideas,
		Votes:          a.Votes,
		Activity:       a.Activity,
		Auth:           auth,
		RateLimit:      rateLimit,
		Instrument:     a.Metrics.Middleware,
		Recorder:       a.Metrics,
		MetricsHandler: a.Metrics.Handler(),
		MCPHandler:     mcp.NewHTTPHandler(a.MCP),
		Health:         a.store.Health,
		Logger:         a.logger,
	})
}

// Close releases the store.
func (a *App) Close() error {
	if a.store == nil || a.store.Close == nil {
		return nil
	}
	return a.store.Close()
}
