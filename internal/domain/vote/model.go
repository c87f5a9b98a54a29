package vote

import "time"

// Vote records that a user voted for an idea
type Vote struct {
	Username  string    `json:"username"`
	IdeaID    string    `json:"idea_id"`
	IdeaTitle string    `json:"idea_title"`
	VotedAt   time.Time `json:"voted_at"`
}

// CastResult is the outcome of a vote transaction
type CastResult struct {
	IdeaID       string `json:"idea_id"`
	Votes        int    `json:"votes"`
	AlreadyVoted bool   `json:"already_voted"`
	Message      string `json:"message"`
}
