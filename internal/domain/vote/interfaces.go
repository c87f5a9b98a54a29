package vote

import (
	"context"

	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
)

// Repository provides persistence for the vote ledger.
type Repository interface {
	HasVoted(ctx context.Context, username, ideaID string) (bool, error)
	// Cast records the vote and increments the idea counter as one unit.
	// It returns repository.ErrDuplicate when the pair already exists.
	Cast(ctx context.Context, v *Vote) (int, error)
	ListByUser(ctx context.Context, username string) ([]Vote, error)
	List(ctx context.Context) ([]Vote, error)
}

// IdeaRepository provides idea lookups for vote validation.
type IdeaRepository interface {
	Get(ctx context.Context, id string) (*idea.Idea, error)
}

// ActivityRepository logs vote activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
