package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/rpggio/ideaportal/internal/repository"
)

// VoteRepository implements vote.Repository for SQLite
type VoteRepository struct {
	db *DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// HasVoted reports whether a ledger row exists for the pair
func (r *VoteRepository) HasVoted(ctx context.Context, username, ideaID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE username = ? AND idea_id = ?`,
		username, ideaID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return count > 0, nil
}

// Cast appends the ledger row and increments the idea counter in one transaction
func (r *VoteRepository) Cast(ctx context.Context, v *vote.Vote) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertVote(ctx, tx, v); err != nil {
		return 0, err
	}

	votes, err := incrementVotes(ctx, tx, v.IdeaID)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return votes, nil
}

// ListByUser returns a user's votes in the order they were cast
func (r *VoteRepository) ListByUser(ctx context.Context, username string) ([]vote.Vote, error) {
	return r.list(ctx, `WHERE username = ?`, username)
}

// List returns the whole ledger
func (r *VoteRepository) List(ctx context.Context) ([]vote.Vote, error) {
	return r.list(ctx, "")
}

func (r *VoteRepository) list(ctx context.Context, where string, args ...any) ([]vote.Vote, error) {
	query := `SELECT username, idea_id, idea_title, voted_at FROM votes ` + where + ` ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	votes := []vote.Vote{}
	for rows.Next() {
		var v vote.Vote
		if err := rows.Scan(&v.Username, &v.IdeaID, &v.IdeaTitle, &v.VotedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote rows: %w", err)
	}

	return votes, nil
}

func insertVote(ctx context.Context, q execQuerier, v *vote.Vote) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO votes (username, idea_id, idea_title, voted_at) VALUES (?, ?, ?, ?)`,
		v.Username, v.IdeaID, v.IdeaTitle, v.VotedAt,
	)
	switch {
	case isUniqueViolation(err):
		return repository.ErrDuplicate
	case isForeignKeyViolation(err):
		return repository.ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to record vote: %w", err)
	}
	return nil
}
