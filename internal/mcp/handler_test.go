package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/stretchr/testify/require"
)

type ideaStub struct {
	submitFn    func(context.Context, idea.SubmitRequest) (*idea.Idea, error)
	getFn       func(context.Context, string) (*idea.Idea, error)
	listFn      func(context.Context, idea.ListOptions) ([]idea.Idea, error)
	topFn       func(context.Context, int) ([]idea.Idea, error)
	countsFn    func(context.Context) ([]idea.CategoryCount, error)
	setStatusFn func(context.Context, string, string, string) (*idea.Idea, error)
}

func (s ideaStub) Submit(ctx context.Context, req idea.SubmitRequest) (*idea.Idea, error) {
	return s.submitFn(ctx, req)
}
func (s ideaStub) Get(ctx context.Context, id string) (*idea.Idea, error) {
	return s.getFn(ctx, id)
}
func (s ideaStub) List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error) {
	return s.listFn(ctx, opts)
}
func (s ideaStub) Top(ctx context.Context, n int) ([]idea.Idea, error) {
	return s.topFn(ctx, n)
}
func (s ideaStub) CategoryCounts(ctx context.Context) ([]idea.CategoryCount, error) {
	return s.countsFn(ctx)
}
func (s ideaStub) SetStatus(ctx context.Context, id, status, actor string) (*idea.Idea, error) {
	return s.setStatusFn(ctx, id, status, actor)
}

type voteStub struct {
	castFn     func(context.Context, vote.CastRequest) (*vote.CastResult, error)
	hasVotedFn func(context.Context, string, string) (bool, error)
	byUserFn   func(context.Context, string) ([]vote.Vote, error)
}

func (s voteStub) Cast(ctx context.Context, req vote.CastRequest) (*vote.CastResult, error) {
	return s.castFn(ctx, req)
}
func (s voteStub) HasVoted(ctx context.Context, username, ideaID string) (bool, error) {
	return s.hasVotedFn(ctx, username, ideaID)
}
func (s voteStub) VotesByUser(ctx context.Context, username string) ([]vote.Vote, error) {
	return s.byUserFn(ctx, username)
}

type activityStub struct {
	recentFn func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (s activityStub) GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return s.recentFn(ctx, opts)
}

type countingRecorder struct {
	submitted  int
	votes      int
	duplicates int
}

func (r *countingRecorder) IdeaSubmitted() { r.submitted++ }
func (r *countingRecorder) VoteCast(alreadyVoted bool) {
	if alreadyVoted {
		r.duplicates++
		return
	}
	r.votes++
}

func TestHandler_IdeaCommands(t *testing.T) {
	ctx := context.Background()
	recorder := &countingRecorder{}

	ideas := ideaStub{
		submitFn: func(_ context.Context, req idea.SubmitRequest) (*idea.Idea, error) {
			require.Equal(t, "Eco Box", req.Title)
			require.Equal(t, "Operations", req.Category)
			return &idea.Idea{ID: "i1", Title: req.Title}, nil
		},
		getFn: func(_ context.Context, id string) (*idea.Idea, error) {
			require.Equal(t, "i1", id)
			return &idea.Idea{ID: id}, nil
		},
		listFn: func(_ context.Context, opts idea.ListOptions) ([]idea.Idea, error) {
			require.Equal(t, "eco", opts.Keyword)
			require.Equal(t, "All", opts.Category)
			require.True(t, opts.SortByVotes)
			return []idea.Idea{{ID: "i1"}}, nil
		},
		topFn: func(_ context.Context, n int) ([]idea.Idea, error) {
			require.Equal(t, 3, n)
			return []idea.Idea{{ID: "i1"}}, nil
		},
		countsFn: func(context.Context) ([]idea.CategoryCount, error) {
			return []idea.CategoryCount{{Category: idea.CategoryTechnology, Count: 2}, {Category: idea.CategoryHR, Count: 1}}, nil
		},
		setStatusFn: func(_ context.Context, id, status, actor string) (*idea.Idea, error) {
			require.Equal(t, "Approved", status)
			require.Equal(t, "ana", actor)
			return &idea.Idea{ID: id, Status: idea.StatusApproved}, nil
		},
	}
	h := NewHandler(ideas, voteStub{}, activityStub{}, recorder)

	resp, err := h.Handle(ctx, "ana", "submit_idea", json.RawMessage(`{"name":"Ana","title":"Eco Box","description":"d","category":"Operations"}`))
	require.NoError(t, err)
	require.Equal(t, "i1", resp.(*idea.Idea).ID)
	require.Equal(t, 1, recorder.submitted)

	resp, err = h.Handle(ctx, "ana", "list_ideas", json.RawMessage(`{"keyword":"eco","category":"All","sort_by_votes":true}`))
	require.NoError(t, err)
	require.Equal(t, 1, resp.(ListIdeasResponse).Count)

	_, err = h.Handle(ctx, "ana", "get_idea", json.RawMessage(`{"id":"i1"}`))
	require.NoError(t, err)

	resp, err = h.Handle(ctx, "ana", "top_ideas", json.RawMessage(`{"limit":3}`))
	require.NoError(t, err)
	require.Len(t, resp.(TopIdeasResponse).Ideas, 1)

	resp, err = h.Handle(ctx, "ana", "category_counts", nil)
	require.NoError(t, err)
	require.Equal(t, 3, resp.(CategoryCountsResponse).Total)

	resp, err = h.Handle(ctx, "ana", "set_idea_status", json.RawMessage(`{"id":"i1","status":"Approved"}`))
	require.NoError(t, err)
	require.Equal(t, idea.StatusApproved, resp.(*idea.Idea).Status)
}

func TestHandler_VoteCommands(t *testing.T) {
	ctx := context.Background()
	recorder := &countingRecorder{}

	votes := voteStub{
		castFn: func(_ context.Context, req vote.CastRequest) (*vote.CastResult, error) {
			require.Equal(t, "bob", req.Username)
			require.Equal(t, "i1", req.IdeaID)
			return &vote.CastResult{IdeaID: req.IdeaID, Votes: 1, AlreadyVoted: true}, nil
		},
		hasVotedFn: func(_ context.Context, username, ideaID string) (bool, error) {
			return username == "bob" && ideaID == "i1", nil
		},
		byUserFn: func(_ context.Context, username string) ([]vote.Vote, error) {
			return []vote.Vote{{Username: username, IdeaID: "i1"}}, nil
		},
	}
	h := NewHandler(ideaStub{}, votes, activityStub{}, recorder)

	resp, err := h.Handle(ctx, "bob", "cast_vote", json.RawMessage(`{"idea_id":"i1"}`))
	require.NoError(t, err)
	require.True(t, resp.(*vote.CastResult).AlreadyVoted)
	require.Equal(t, 1, recorder.duplicates)

	resp, err = h.Handle(ctx, "bob", "has_voted", json.RawMessage(`{"idea_id":"i1"}`))
	require.NoError(t, err)
	require.True(t, resp.(HasVotedResponse).HasVoted)

	resp, err = h.Handle(ctx, "bob", "my_votes", nil)
	require.NoError(t, err)
	require.Equal(t, "bob", resp.(MyVotesResponse).Username)
	require.Len(t, resp.(MyVotesResponse).Votes, 1)
}

func TestHandler_RecentActivity(t *testing.T) {
	activitySvc := activityStub{
		recentFn: func(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
			require.NotNil(t, opts.IdeaID)
			require.Equal(t, "i1", *opts.IdeaID)
			require.Equal(t, 10, opts.Limit)
			return []activity.ActivityEntry{{ActivityType: activity.TypeVoteCast}}, nil
		},
	}
	h := NewHandler(ideaStub{}, voteStub{}, activitySvc, nil)

	resp, err := h.Handle(context.Background(), "bob", "recent_activity", json.RawMessage(`{"idea_id":"i1","limit":10}`))
	require.NoError(t, err)
	require.Len(t, resp.(RecentActivityResponse).Activity, 1)

	_, err = h.Handle(context.Background(), "bob", "recent_activity", json.RawMessage(`{"type":"bogus"}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_INPUT", apiErr.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	ideas := ideaStub{
		submitFn: func(context.Context, idea.SubmitRequest) (*idea.Idea, error) {
			return nil, idea.ErrMissingField
		},
		getFn: func(context.Context, string) (*idea.Idea, error) {
			return nil, idea.ErrIdeaNotFound
		},
		listFn: func(context.Context, idea.ListOptions) ([]idea.Idea, error) {
			return nil, errors.New("disk on fire")
		},
	}
	h := NewHandler(ideas, voteStub{}, activityStub{}, nil)
	ctx := context.Background()

	_, err := h.Handle(ctx, "ana", "submit_idea", json.RawMessage(`{"title":""}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "MISSING_FIELD", apiErr.Code)

	_, err = h.Handle(ctx, "ana", "get_idea", json.RawMessage(`{"id":"nope"}`))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "IDEA_NOT_FOUND", apiErr.Code)

	_, err = h.Handle(ctx, "ana", "list_ideas", nil)
	require.Error(t, err)
	require.False(t, errors.As(err, &apiErr), "storage errors are not mapped")

	_, err = h.Handle(ctx, "ana", "get_idea", json.RawMessage(`{"id":`))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_PARAMS", apiErr.Code)

	_, err = h.Handle(ctx, "ana", "delete_everything", nil)
	require.ErrorContains(t, err, "unknown method")
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{idea.ErrMissingField, "MISSING_FIELD"},
		{idea.ErrInvalidCategory, "INVALID_CATEGORY"},
		{idea.ErrIdeaNotFound, "IDEA_NOT_FOUND"},
		{idea.ErrInvalidStatus, "INVALID_STATUS"},
		{idea.ErrInvalidTransition, "INVALID_TRANSITION"},
		{vote.ErrInvalidInput, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		apiErr := MapError(tt.err)
		require.NotNil(t, apiErr)
		require.Equal(t, tt.code, apiErr.Code)
	}
	require.Nil(t, MapError(errors.New("other")))
	require.Nil(t, MapError(nil))
}
