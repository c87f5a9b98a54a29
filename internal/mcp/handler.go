package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
)

// Handler dispatches MCP commands.
type Handler struct {
	ideas    IdeaService
	votes    VoteService
	activity ActivityService
	recorder Recorder
}

// NewHandler creates a new MCP handler. recorder may be nil.
func NewHandler(ideas IdeaService, votes VoteService, activitySvc ActivityService, recorder Recorder) *Handler {
	return &Handler{
		ideas:    ideas,
		votes:    votes,
		activity: activitySvc,
		recorder: recorder,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, username, method string, params json.RawMessage) (any, error) {
	switch method {
	case "submit_idea":
		var req SubmitIdeaParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		created, err := h.ideas.Submit(ctx, idea.SubmitRequest{
			Name:        req.Name,
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
		})
		if err != nil {
			return nil, mapError(err)
		}
		if h.recorder != nil {
			h.recorder.IdeaSubmitted()
		}
		return created, nil
	case "list_ideas":
		var req ListIdeasParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ideas, err := h.ideas.List(ctx, idea.ListOptions{
			Keyword:     req.Keyword,
			Category:    req.Category,
			SortByVotes: req.SortByVotes,
			Limit:       req.Limit,
			Offset:      req.Offset,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return ListIdeasResponse{Ideas: ideas, Count: len(ideas)}, nil
	case "get_idea":
		var req GetIdeaParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		rec, err := h.ideas.Get(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return rec, nil
	case "set_idea_status":
		var req SetIdeaStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		updated, err := h.ideas.SetStatus(ctx, req.ID, req.Status, username)
		if err != nil {
			return nil, mapError(err)
		}
		return updated, nil
	case "cast_vote":
		var req VoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.votes.Cast(ctx, vote.CastRequest{Username: username, IdeaID: req.IdeaID})
		if err != nil {
			return nil, mapError(err)
		}
		if h.recorder != nil {
			h.recorder.VoteCast(result.AlreadyVoted)
		}
		return result, nil
	case "has_voted":
		var req VoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		voted, err := h.votes.HasVoted(ctx, username, req.IdeaID)
		if err != nil {
			return nil, mapError(err)
		}
		return HasVotedResponse{IdeaID: req.IdeaID, HasVoted: voted}, nil
	case "my_votes":
		votes, err := h.votes.VotesByUser(ctx, username)
		if err != nil {
			return nil, mapError(err)
		}
		return MyVotesResponse{Username: username, Votes: votes}, nil
	case "category_counts":
		counts, err := h.ideas.CategoryCounts(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		total := 0
		for _, c := range counts {
			total += c.Count
		}
		return CategoryCountsResponse{Categories: counts, Total: total}, nil
	case "top_ideas":
		var req TopIdeasParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ideas, err := h.ideas.Top(ctx, req.Limit)
		if err != nil {
			return nil, mapError(err)
		}
		return TopIdeasResponse{Ideas: ideas}, nil
	case "recent_activity":
		var req RecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{Limit: req.Limit}
		if req.IdeaID != "" {
			opts.IdeaID = &req.IdeaID
		}
		if req.Type != "" {
			activityType, err := activity.ParseType(req.Type)
			if err != nil {
				return nil, mapError(err)
			}
			opts.ActivityType = &activityType
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		return RecentActivityResponse{Activity: entries}, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error()}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
