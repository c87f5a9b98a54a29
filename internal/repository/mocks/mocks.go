package mocks

import (
	"context"

	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/stretchr/testify/mock"
)

// IdeaRepository is a mock for idea.Repository.
type IdeaRepository struct {
	mock.Mock
}

func (m *IdeaRepository) Create(ctx context.Context, rec *idea.Idea) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *IdeaRepository) Get(ctx context.Context, id string) (*idea.Idea, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*idea.Idea); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdeaRepository) List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]idea.Idea); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdeaRepository) IncrementVotes(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *IdeaRepository) UpdateStatus(ctx context.Context, id string, status idea.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *IdeaRepository) CountByCategory(ctx context.Context) (map[idea.Category]int, error) {
	args := m.Called(ctx)
	if counts, ok := args.Get(0).(map[idea.Category]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

// VoteRepository is a mock for vote.Repository.
type VoteRepository struct {
	mock.Mock
}

func (m *VoteRepository) HasVoted(ctx context.Context, username, ideaID string) (bool, error) {
	args := m.Called(ctx, username, ideaID)
	return args.Bool(0), args.Error(1)
}

func (m *VoteRepository) Cast(ctx context.Context, v *vote.Vote) (int, error) {
	args := m.Called(ctx, v)
	return args.Int(0), args.Error(1)
}

func (m *VoteRepository) ListByUser(ctx context.Context, username string) ([]vote.Vote, error) {
	args := m.Called(ctx, username)
	if list, ok := args.Get(0).([]vote.Vote); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VoteRepository) List(ctx context.Context) ([]vote.Vote, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]vote.Vote); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
