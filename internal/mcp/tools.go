package mcp

import (
	"context"
	"encoding/json"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes one MCP tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "minimum": 0, "description": description}
}

func emptySchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	categories := []string{"Technology", "Operations", "HR", "Customer Experience", "Other"}

	return []ToolDefinition{
		// Ideas
		{
			Name:        "submit_idea",
			Description: "Submit a new idea. It starts with zero votes and status Under Review",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        stringProp("Submitter display name"),
					"title":       stringProp("Short idea title"),
					"description": stringProp("What the idea is and why it helps"),
					"category": map[string]any{
						"type":        "string",
						"enum":        categories,
						"description": "Idea category (defaults to Other)",
					},
				},
				"required": []string{"name", "title", "description"},
			},
		},
		{
			Name:        "list_ideas",
			Description: "List ideas, optionally filtered by keyword (title or description) and category",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"keyword":  stringProp("Case-insensitive text to find in title or description"),
					"category": stringProp("Category name, or All"),
					"sort_by_votes": map[string]any{
						"type":        "boolean",
						"description": "Order by votes instead of submission order",
					},
					"limit":  intProp("Maximum number of ideas"),
					"offset": intProp("Number of ideas to skip"),
				},
			},
		},
		{
			Name:        "get_idea",
			Description: "Get one idea by ID",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": stringProp("Idea ID"),
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "set_idea_status",
			Description: "Approve, reject, or reopen an idea",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": stringProp("Idea ID"),
					"status": map[string]any{
						"type":        "string",
						"enum":        []string{"Under Review", "Approved", "Rejected"},
						"description": "New status",
					},
				},
				"required": []string{"id", "status"},
			},
		},

		// Votes
		{
			Name:        "cast_vote",
			Description: "Vote for an idea as the current user. A repeat vote is reported, not counted",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"idea_id": stringProp("Idea ID"),
				},
				"required": []string{"idea_id"},
			},
		},
		{
			Name:        "has_voted",
			Description: "Check whether the current user already voted for an idea",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"idea_id": stringProp("Idea ID"),
				},
				"required": []string{"idea_id"},
			},
		},
		{
			Name:        "my_votes",
			Description: "List the ideas the current user voted for",
			InputSchema: emptySchema(),
		},

		// Summaries
		{
			Name:        "category_counts",
			Description: "Number of ideas in each category",
			InputSchema: emptySchema(),
		},
		{
			Name:        "top_ideas",
			Description: "Most voted ideas",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": intProp("Number of ideas (default 5)"),
				},
			},
		},
		{
			Name:        "recent_activity",
			Description: "Recent submissions, votes and status changes, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"idea_id": stringProp("Only activity for this idea"),
					"type": map[string]any{
						"type":        "string",
						"enum":        []string{"idea_submitted", "vote_cast", "vote_duplicate", "status_changed"},
						"description": "Only activity of this type",
					},
					"limit": intProp("Maximum number of entries"),
				},
			},
		},
	}
}

// registerTools exposes every catalog entry through the handler.
func registerTools(server *sdkmcp.Server, handler *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, getUsername(ctx), name, args)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(result, false)
		})
	}
}

func jsonResult(payload any, isError bool) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: isError,
	}, nil
}

// errorResult reports a failed call as tool output so clients can recover.
func errorResult(err error) *sdkmcp.CallToolResult {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	result, marshalErr := jsonResult(apiErr, true)
	if marshalErr != nil {
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: apiErr.Error()}},
			IsError: true,
		}
	}
	return result
}
