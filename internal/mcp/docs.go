package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `ideaportal collects innovation ideas and one vote per user per idea.

- Submit with submit_idea (name, title, description required; category defaults to Other).
- Browse with list_ideas (keyword matches title or description, category "All" means no filter).
- Vote with cast_vote. Voting twice is not an error: the result has already_voted=true and the count is unchanged.
- Summaries: category_counts and top_ideas.
- Read ideas://guide for categories, statuses and error codes.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "ideas://guide",
		Name:        "ideas_guide",
		Title:       "Idea portal guide",
		Description: "Categories, statuses, voting rules and error codes.",
		Content: `# Idea portal guide

## Ideas

Every idea has a generated ` + "`id`" + `. Titles may repeat; always refer to ideas by id.

Categories: Technology, Operations, HR, Customer Experience, Other.

Statuses: Under Review (initial), Approved, Rejected. A decided idea can only go
back to Under Review.

## Votes

Each user can vote once per idea. ` + "`cast_vote`" + ` returns the new count, or
` + "`already_voted: true`" + ` with the unchanged count. Use ` + "`has_voted`" + `
before offering a vote button.

## Error codes

- MISSING_FIELD: name, title or description was blank. Nothing was saved.
- INVALID_CATEGORY / INVALID_STATUS: value not in the lists above.
- INVALID_TRANSITION: status change not allowed.
- IDEA_NOT_FOUND: unknown id.
- INTERNAL: the store could not be read or written.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
