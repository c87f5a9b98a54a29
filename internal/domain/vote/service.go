package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/repository"
)

const (
	msgRecorded     = "vote recorded"
	msgAlreadyVoted = "you have already voted for this idea"
)

// Service runs the vote transaction against the ledger and idea store.
type Service struct {
	votes      Repository
	ideas      IdeaRepository
	activities ActivityRepository
	logger     *slog.Logger
	locks      *keyedMutex
}

// NewService creates a new vote service.
func NewService(votes Repository, ideas IdeaRepository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		votes:      votes,
		ideas:      ideas,
		activities: activities,
		logger:     logger,
		locks:      newKeyedMutex(),
	}
}

// CastRequest describes a vote.
type CastRequest struct {
	Username string
	IdeaID   string
}

// Cast records at most one vote per user and idea. A repeat vote is not an
// error: the result reports AlreadyVoted and the counter is unchanged.
func (s *Service) Cast(ctx context.Context, req CastRequest) (*CastResult, error) {
	username := strings.TrimSpace(req.Username)
	ideaID := strings.TrimSpace(req.IdeaID)
	if username == "" || ideaID == "" {
		return nil, ErrInvalidInput
	}

	unlock := s.locks.Lock(username + "\x00" + ideaID)
	defer unlock()

	target, err := s.ideas.Get(ctx, ideaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, idea.ErrIdeaNotFound
		}
		return nil, fmt.Errorf("loading idea: %w", err)
	}

	voted, err := s.votes.HasVoted(ctx, username, ideaID)
	if err != nil {
		return nil, fmt.Errorf("checking vote: %w", err)
	}
	if voted {
		return s.alreadyVoted(ctx, username, target), nil
	}

	count, err := s.votes.Cast(ctx, &Vote{
		Username:  username,
		IdeaID:    ideaID,
		IdeaTitle: target.Title,
		VotedAt:   time.Now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return s.alreadyVoted(ctx, username, target), nil
		case errors.Is(err, repository.ErrNotFound):
			return nil, idea.ErrIdeaNotFound
		}
		return nil, fmt.Errorf("casting vote: %w", err)
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		IdeaID:       &target.ID,
		Username:     username,
		ActivityType: activity.TypeVoteCast,
		Summary:      fmt.Sprintf("voted for %q", target.Title),
	})

	return &CastResult{IdeaID: ideaID, Votes: count, Message: msgRecorded}, nil
}

// HasVoted reports whether the user already voted for the idea.
func (s *Service) HasVoted(ctx context.Context, username, ideaID string) (bool, error) {
	username, ideaID = strings.TrimSpace(username), strings.TrimSpace(ideaID)
	if username == "" || ideaID == "" {
		return false, ErrInvalidInput
	}
	return s.votes.HasVoted(ctx, username, ideaID)
}

// VotesByUser returns the ledger entries of one user.
func (s *Service) VotesByUser(ctx context.Context, username string) ([]Vote, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidInput
	}
	votes, err := s.votes.ListByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("listing votes: %w", err)
	}
	return votes, nil
}

// All returns the full ledger in append order.
func (s *Service) All(ctx context.Context) ([]Vote, error) {
	votes, err := s.votes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing votes: %w", err)
	}
	return votes, nil
}

func (s *Service) alreadyVoted(ctx context.Context, username string, target *idea.Idea) *CastResult {
	s.logActivity(ctx, &activity.ActivityEntry{
		IdeaID:       &target.ID,
		Username:     username,
		ActivityType: activity.TypeVoteDuplicate,
		Summary:      fmt.Sprintf("repeat vote for %q ignored", target.Title),
	})
	current := target.Votes
	if fresh, err := s.ideas.Get(ctx, target.ID); err == nil {
		current = fresh.Votes
	}
	return &CastResult{IdeaID: target.ID, Votes: current, AlreadyVoted: true, Message: msgAlreadyVoted}
}

func (s *Service) logActivity(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}
