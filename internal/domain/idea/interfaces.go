package idea

import (
	"context"

	"github.com/rpggio/ideaportal/internal/domain/activity"
)

// Repository provides persistence for ideas.
type Repository interface {
	Create(ctx context.Context, idea *Idea) error
	Get(ctx context.Context, id string) (*Idea, error)
	List(ctx context.Context, opts ListOptions) ([]Idea, error)
	IncrementVotes(ctx context.Context, id string) (int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	CountByCategory(ctx context.Context) (map[Category]int, error)
}

// ActivityRepository logs idea activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
