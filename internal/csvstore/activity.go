package csvstore

import (
	"context"
	"time"

	"github.com/rpggio/ideaportal/internal/domain/activity"
)

// ActivityRepository implements activity.Repository over activity.csv
type ActivityRepository struct {
	s *Store
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(s *Store) *ActivityRepository {
	return &ActivityRepository{s: s}
}

func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entries, err := load(r.s, ActivityFile, readActivity)
	if err != nil {
		return err
	}

	row := *entry
	row.ID = int64(len(entries)) + 1
	if len(entries) > 0 {
		row.ID = entries[len(entries)-1].ID + 1
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	if err := r.s.appendRow(ActivityFile, activityRow(row)); err != nil {
		return err
	}

	entry.ID = row.ID
	entry.CreatedAt = row.CreatedAt
	return nil
}

// List returns matching entries, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	r.s.mu.Lock()
	entries, err := load(r.s, ActivityFile, readActivity)
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result := []activity.ActivityEntry{}
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if opts.IdeaID != nil && (entry.IdeaID == nil || *entry.IdeaID != *opts.IdeaID) {
			continue
		}
		if opts.Username != nil && entry.Username != *opts.Username {
			continue
		}
		if opts.ActivityType != nil && entry.ActivityType != *opts.ActivityType {
			continue
		}
		result = append(result, entry)
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(result) {
			return []activity.ActivityEntry{}, nil
		}
		result = result[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

var _ activity.Repository = (*ActivityRepository)(nil)
