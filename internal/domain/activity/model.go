package activity

import (
	"fmt"
	"time"
)

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeIdeaSubmitted ActivityType = "idea_submitted"
	TypeVoteCast      ActivityType = "vote_cast"
	TypeVoteDuplicate ActivityType = "vote_duplicate"
	TypeStatusChanged ActivityType = "status_changed"
)

// Types lists every activity type.
var Types = []ActivityType{TypeIdeaSubmitted, TypeVoteCast, TypeVoteDuplicate, TypeStatusChanged}

// ParseType validates a filter value.
func ParseType(raw string) (ActivityType, error) {
	for _, t := range Types {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, raw)
}

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	IdeaID       *string      `json:"idea_id,omitempty"`
	Username     string       `json:"username,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
