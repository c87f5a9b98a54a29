package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ideaportal/internal/csvstore"
	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/user"
	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, username string) *sdkmcp.ClientSession {
	t.Helper()

	store, err := csvstore.Open(t.TempDir(), nil)
	require.NoError(t, err)
	ideaRepo := csvstore.NewIdeaRepository(store)
	voteRepo := csvstore.NewVoteRepository(store)
	activityRepo := csvstore.NewActivityRepository(store)

	server := NewServer(Config{
		Services: Services{
			Ideas:    idea.NewService(ideaRepo, activityRepo, nil),
			Votes:    vote.NewService(voteRepo, ideaRepo, activityRepo, nil),
			Activity: activity.NewService(activityRepo, nil),
		},
		DefaultUser:   username,
		TransportMode: "stdio",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
		serverSession.Close()
	})
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (json.RawMessage, bool) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content")
	return json.RawMessage(text.Text), result.IsError
}

func TestServer_ListsToolsAndGuide(t *testing.T) {
	session := newTestClient(t, "ana")
	ctx := context.Background()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, def := range buildToolCatalog() {
		require.True(t, names[def.Name], "tool %s not registered", def.Name)
	}

	guide, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "ideas://guide"})
	require.NoError(t, err)
	require.Len(t, guide.Contents, 1)
	require.Contains(t, guide.Contents[0].Text, "MISSING_FIELD")
}

func TestServer_SubmitAndVote(t *testing.T) {
	session := newTestClient(t, "ana")

	raw, isErr := callTool(t, session, "submit_idea", map[string]any{
		"name":        "Ana",
		"title":       "Eco Box",
		"description": "Recyclable packaging",
		"category":    "Operations",
	})
	require.False(t, isErr, string(raw))
	var created idea.Idea
	require.NoError(t, json.Unmarshal(raw, &created))
	require.Equal(t, 0, created.Votes)

	raw, isErr = callTool(t, session, "cast_vote", map[string]any{"idea_id": created.ID})
	require.False(t, isErr, string(raw))
	var result vote.CastResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Equal(t, 1, result.Votes)
	require.False(t, result.AlreadyVoted)

	raw, isErr = callTool(t, session, "cast_vote", map[string]any{"idea_id": created.ID})
	require.False(t, isErr)
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Equal(t, 1, result.Votes)
	require.True(t, result.AlreadyVoted)

	raw, _ = callTool(t, session, "has_voted", map[string]any{"idea_id": created.ID})
	var voted HasVotedResponse
	require.NoError(t, json.Unmarshal(raw, &voted))
	require.True(t, voted.HasVoted)

	raw, _ = callTool(t, session, "list_ideas", map[string]any{"keyword": "ECO"})
	var list ListIdeasResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Equal(t, 1, list.Count)
	require.Equal(t, 1, list.Ideas[0].Votes)
}

func TestServer_ToolErrors(t *testing.T) {
	session := newTestClient(t, "ana")

	raw, isErr := callTool(t, session, "submit_idea", map[string]any{
		"name":        "Ana",
		"title":       "  ",
		"description": "Recyclable packaging",
	})
	require.True(t, isErr)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(raw, &apiErr))
	require.Equal(t, "MISSING_FIELD", apiErr.Code)

	raw, isErr = callTool(t, session, "cast_vote", map[string]any{"idea_id": "missing"})
	require.True(t, isErr)
	require.NoError(t, json.Unmarshal(raw, &apiErr))
	require.Equal(t, "IDEA_NOT_FOUND", apiErr.Code)

	raw, _ = callTool(t, session, "list_ideas", nil)
	var list ListIdeasResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Zero(t, list.Count, "rejected submission stored nothing")
}

type staticAuthenticator struct{}

func (staticAuthenticator) Authenticate(_ context.Context, username, password string) (*user.User, error) {
	if username == "ana" && password == "pw" {
		return &user.User{Username: "ana"}, nil
	}
	return nil, user.ErrInvalidCredentials
}

func TestAuthMiddleware(t *testing.T) {
	var seen string
	next := func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		seen = getUsername(ctx)
		return nil, nil
	}
	handler := authMiddleware(staticAuthenticator{})(next)
	ctx := context.Background()

	header := http.Header{}
	httpReq := &http.Request{Header: header}
	httpReq.SetBasicAuth("ana", "pw")

	_, err := handler(ctx, "tools/call", &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "my_votes"},
		Extra:  &sdkmcp.RequestExtra{Header: header},
	})
	require.NoError(t, err)
	require.Equal(t, "ana", seen)

	badHeader := http.Header{}
	badReq := &http.Request{Header: badHeader}
	badReq.SetBasicAuth("ana", "wrong")
	_, err = handler(ctx, "tools/call", &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "my_votes"},
		Extra:  &sdkmcp.RequestExtra{Header: badHeader},
	})
	require.ErrorContains(t, err, "unauthorized")

	_, err = handler(ctx, "tools/call", &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "my_votes"},
	})
	require.ErrorContains(t, err, "missing headers")
}
