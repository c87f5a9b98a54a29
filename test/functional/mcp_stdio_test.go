package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session for stdio transport testing
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()
	return newStdioSessionWithEnv(t, nil)
}

func newStdioSessionWithEnv(t *testing.T, extraEnv []string) *stdioSession {
	t.Helper()

	binaryPath := "./bin/ideaportal"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/ideaportal"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'go build -o bin/ideaportal ./cmd/server' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"IDEAPORTAL_TRANSPORT=stdio",
		"IDEAPORTAL_DB_PATH=:memory:",
		"IDEAPORTAL_AUTH_ENABLED=false",
		"IDEAPORTAL_DEFAULT_USER=stdio-user",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session, cancel: cancel}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	return mustCallTool(t, s.session, name, args)
}

func (s *stdioSession) close() {
	s.session.Close()
	s.cancel()
}

func TestStdioFunctional_SubmitAndVote(t *testing.T) {
	s := newStdioSession(t)

	var created idea.Idea
	require.NoError(t, json.Unmarshal(s.callTool(t, "submit_idea", map[string]any{
		"name": "Ana", "title": "Smart AI", "description": "Ticket triage", "category": "Technology",
	}), &created))

	var cast vote.CastResult
	require.NoError(t, json.Unmarshal(s.callTool(t, "cast_vote", map[string]any{"idea_id": created.ID}), &cast))
	require.Equal(t, 1, cast.Votes)

	var mine struct {
		Username string      `json:"username"`
		Votes    []vote.Vote `json:"votes"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "my_votes", nil), &mine))
	require.Equal(t, "stdio-user", mine.Username)
	require.Len(t, mine.Votes, 1)

	var counts struct {
		Categories []idea.CategoryCount `json:"categories"`
		Total      int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "category_counts", nil), &counts))
	require.Equal(t, 1, counts.Total)
	require.Len(t, counts.Categories, len(idea.Categories))

	activity := s.callTool(t, "recent_activity", map[string]any{"idea_id": created.ID})
	require.Contains(t, string(activity), "vote_cast")
}

func TestStdioFunctional_CSVBackendPersists(t *testing.T) {
	dataDir := t.TempDir()
	env := []string{
		"IDEAPORTAL_STORE_BACKEND=csv",
		"IDEAPORTAL_DATA_DIR=" + dataDir,
	}

	first := newStdioSessionWithEnv(t, env)
	first.callTool(t, "submit_idea", map[string]any{
		"name": "Ana", "title": "Eco Box", "description": "Reusable packaging",
	})
	first.close()

	data, err := os.ReadFile(filepath.Join(dataDir, "ideas.csv"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Eco Box")

	second := newStdioSessionWithEnv(t, env)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(second.callTool(t, "list_ideas", map[string]any{"keyword": "eco"}), &list))
	require.Equal(t, 1, list.Count)
}

func TestStdioFunctional_MCPProtocolCompliance(t *testing.T) {
	s := newStdioSession(t)

	initResult := s.session.InitializeResult()
	require.NotNil(t, initResult)
	require.NotNil(t, initResult.ServerInfo)
	require.Equal(t, "ideaportal", initResult.ServerInfo.Name)
	require.Equal(t, "0.1.0", initResult.ServerInfo.Version)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := s.session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 10)

	toolMap := make(map[string]*sdkmcp.Tool)
	for _, tool := range tools.Tools {
		toolMap[tool.Name] = tool
	}
	for _, name := range []string{"submit_idea", "list_ideas", "cast_vote", "top_ideas"} {
		require.Contains(t, toolMap, name)
		require.NotEmpty(t, toolMap[name].Description)
	}
}

func TestStdioFunctional_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ideaportal.log")
	s := newStdioSessionWithEnv(t, []string{
		"IDEAPORTAL_LOG_PATH=" + logPath,
		"IDEAPORTAL_LOG_LEVEL=debug",
	})

	_ = s.callTool(t, "list_ideas", nil)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		text := string(data)
		return strings.Contains(text, `msg="mcp request"`) &&
			strings.Contains(text, `msg="mcp response"`) &&
			strings.Contains(text, "method=tools/call")
	}, 5*time.Second, 100*time.Millisecond)
}

func TestStdioFunctional_GuideResource(t *testing.T) {
	s := newStdioSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resources, err := s.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 1)
	require.Equal(t, "ideas://guide", resources.Resources[0].URI)
	require.Equal(t, "text/markdown", resources.Resources[0].MIMEType)
	require.Greater(t, resources.Resources[0].Size, int64(0))

	read, err := s.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "ideas://guide"})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Contains(t, read.Contents[0].Text, "MISSING_FIELD")
}
