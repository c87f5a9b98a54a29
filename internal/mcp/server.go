package mcp

import (
	"context"
	"log/slog"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
)

// IdeaService defines idea operations needed by MCP.
type IdeaService interface {
	Submit(ctx context.Context, req idea.SubmitRequest) (*idea.Idea, error)
	Get(ctx context.Context, id string) (*idea.Idea, error)
	List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error)
	Top(ctx context.Context, n int) ([]idea.Idea, error)
	CategoryCounts(ctx context.Context) ([]idea.CategoryCount, error)
	SetStatus(ctx context.Context, id, status, actor string) (*idea.Idea, error)
}

// VoteService defines vote operations needed by MCP.
type VoteService interface {
	Cast(ctx context.Context, req vote.CastRequest) (*vote.CastResult, error)
	HasVoted(ctx context.Context, username, ideaID string) (bool, error)
	VotesByUser(ctx context.Context, username string) ([]vote.Vote, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Recorder counts domain events for metrics.
type Recorder interface {
	IdeaSubmitted()
	VoteCast(alreadyVoted bool)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Ideas    IdeaService
	Votes    VoteService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Recorder      Recorder
	Authenticator Authenticator
	AuthEnabled   bool
	DefaultUser   string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "ideaportal",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is a local single-user session; HTTP follows the auth config.
	identify := noAuthMiddleware(cfg.DefaultUser)
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		identify = authMiddleware(cfg.Authenticator)
	}
	// The first middleware runs first, so traffic logs see the caller.
	server.AddReceivingMiddleware(identify, trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	handler := NewHandler(cfg.Services.Ideas, cfg.Services.Votes, cfg.Services.Activity, cfg.Recorder)
	registerTools(server, handler)

	return server
}

// NewHTTPHandler serves the MCP server over streamable HTTP.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, nil)
}
