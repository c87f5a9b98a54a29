package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
)

// IdeaService defines idea operations needed by HTTP handlers.
type IdeaService interface {
	Submit(ctx context.Context, req idea.SubmitRequest) (*idea.Idea, error)
	Get(ctx context.Context, id string) (*idea.Idea, error)
	List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error)
	Top(ctx context.Context, n int) ([]idea.Idea, error)
	CategoryCounts(ctx context.Context) ([]idea.CategoryCount, error)
	SetStatus(ctx context.Context, id, status, actor string) (*idea.Idea, error)
}

// VoteService defines vote operations needed by HTTP handlers.
type VoteService interface {
	Cast(ctx context.Context, req vote.CastRequest) (*vote.CastResult, error)
	HasVoted(ctx context.Context, username, ideaID string) (bool, error)
	VotesByUser(ctx context.Context, username string) ([]vote.Vote, error)
	All(ctx context.Context) ([]vote.Vote, error)
}

// ActivityService defines activity operations needed by HTTP handlers.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Recorder counts domain events for metrics.
type Recorder interface {
	IdeaSubmitted()
	VoteCast(alreadyVoted bool)
}

// Config wires the HTTP server.
type Config struct {
	Ideas    IdeaService
	Votes    VoteService
	Activity ActivityService

	// Auth guards the REST routes. Required.
	Auth func(http.Handler) http.Handler
	// Optional pieces; nil disables them.
	RateLimit      func(http.Handler) http.Handler
	Instrument     func(http.Handler) http.Handler
	Recorder       Recorder
	MetricsHandler http.Handler
	MCPHandler     http.Handler
	Health         func(ctx context.Context) error
	Logger         *slog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	ideas    IdeaService
	votes    VoteService
	activity ActivityService
	recorder Recorder
	health   func(ctx context.Context) error
	logger   *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(cfg.Logger))
	if cfg.Instrument != nil {
		r.Use(cfg.Instrument)
	}
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit)
	}

	srv := &Server{
		ideas:    cfg.Ideas,
		votes:    cfg.Votes,
		activity: cfg.Activity,
		recorder: cfg.Recorder,
		health:   cfg.Health,
		logger:   cfg.Logger,
	}

	r.Get("/health", srv.handleHealth)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}
	if cfg.MCPHandler != nil {
		// The MCP server authenticates its own requests.
		r.Handle("/mcp", cfg.MCPHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth)

		r.Route("/ideas", func(r chi.Router) {
			r.Post("/", srv.handleSubmitIdea)
			r.Get("/", srv.handleListIdeas)
			r.Get("/{id}", srv.handleGetIdea)
			r.Put("/{id}/status", srv.handleSetStatus)
			r.Post("/{id}/votes", srv.handleCastVote)
			r.Get("/{id}/votes/me", srv.handleHasVoted)
		})
		r.Get("/me/votes", srv.handleMyVotes)
		r.Get("/stats/categories", srv.handleCategoryCounts)
		r.Get("/stats/top", srv.handleTopIdeas)
		r.Get("/export/ideas.csv", srv.handleExportIdeas)
		r.Get("/export/votes.csv", srv.handleExportVotes)
		r.Get("/activity", srv.handleActivity)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
