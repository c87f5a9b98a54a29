package mcp

import (
	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
)

type SubmitIdeaParams struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

type ListIdeasParams struct {
	Keyword     string `json:"keyword,omitempty"`
	Category    string `json:"category,omitempty"`
	SortByVotes bool   `json:"sort_by_votes,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

type GetIdeaParams struct {
	ID string `json:"id"`
}

type SetIdeaStatusParams struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type VoteParams struct {
	IdeaID string `json:"idea_id"`
}

type TopIdeasParams struct {
	Limit int `json:"limit,omitempty"`
}

type RecentActivityParams struct {
	IdeaID string `json:"idea_id,omitempty"`
	Type   string `json:"type,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type ListIdeasResponse struct {
	Ideas []idea.Idea `json:"ideas"`
	Count int         `json:"count"`
}

type HasVotedResponse struct {
	IdeaID   string `json:"idea_id"`
	HasVoted bool   `json:"has_voted"`
}

type MyVotesResponse struct {
	Username string      `json:"username"`
	Votes    []vote.Vote `json:"votes"`
}

type CategoryCountsResponse struct {
	Categories []idea.CategoryCount `json:"categories"`
	Total      int                  `json:"total"`
}

type TopIdeasResponse struct {
	Ideas []idea.Idea `json:"ideas"`
}

type RecentActivityResponse struct {
	Activity []activity.ActivityEntry `json:"activity"`
}
