package idea

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/repository"
)

// DefaultTopLimit is the size of the top-ideas summary.
const DefaultTopLimit = 5

// Service handles idea business logic.
type Service struct {
	ideas      Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new idea service.
func NewService(ideas Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		ideas:      ideas,
		activities: activities,
		logger:     logger,
	}
}

// SubmitRequest describes an idea submission.
type SubmitRequest struct {
	Name        string
	Title       string
	Description string
	Category    string
}

// Submit validates and stores a new idea with zero votes.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Idea, error) {
	if err := ValidateSubmitInput(req); err != nil {
		return nil, err
	}
	category, err := ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	rec := &Idea{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Status:      StatusUnderReview,
		Votes:       0,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.ideas.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating idea: %w", err)
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		IdeaID:       &rec.ID,
		Username:     rec.Name,
		ActivityType: activity.TypeIdeaSubmitted,
		Summary:      fmt.Sprintf("submitted idea %q", rec.Title),
	})

	return rec, nil
}

// Get returns an idea by ID.
func (s *Service) Get(ctx context.Context, id string) (*Idea, error) {
	rec, err := s.ideas.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("getting idea: %w", err)
	}
	return rec, nil
}

// List returns ideas matching the keyword and category filters.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Idea, error) {
	switch {
	case opts.Category == "":
	case strings.EqualFold(strings.TrimSpace(opts.Category), CategoryAll):
		opts.Category = CategoryAll
	default:
		category, err := ParseCategory(opts.Category)
		if err != nil {
			return nil, err
		}
		opts.Category = string(category)
	}
	ideas, err := s.ideas.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	return ideas, nil
}

// Top returns the n most voted ideas.
func (s *Service) Top(ctx context.Context, n int) ([]Idea, error) {
	if n <= 0 {
		n = DefaultTopLimit
	}
	return s.List(ctx, ListOptions{SortByVotes: true, Limit: n})
}

// CategoryCounts returns the number of ideas per category, zero counts included.
func (s *Service) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	counts, err := s.ideas.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting ideas: %w", err)
	}
	result := make([]CategoryCount, 0, len(Categories))
	for _, c := range Categories {
		result = append(result, CategoryCount{Category: c, Count: counts[c]})
	}
	return result, nil
}

// SetStatus moves an idea to a new review status.
func (s *Service) SetStatus(ctx context.Context, id, status, actor string) (*Idea, error) {
	to, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(current.Status, to); err != nil {
		return nil, err
	}

	if err := s.ideas.UpdateStatus(ctx, id, to); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("updating status: %w", err)
	}

	updated := *current
	updated.Status = to

	s.logActivity(ctx, &activity.ActivityEntry{
		IdeaID:       &updated.ID,
		Username:     actor,
		ActivityType: activity.TypeStatusChanged,
		Summary:      fmt.Sprintf("status %s -> %s", current.Status, to),
	})

	return &updated, nil
}

func (s *Service) logActivity(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}
