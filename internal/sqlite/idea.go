package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/repository"
)

// IdeaRepository implements idea.Repository for SQLite
type IdeaRepository struct {
	db *DB
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(db *DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

const ideaColumns = `id, name, title, description, category, status, votes, submitted_at`

// Create inserts a new idea
func (r *IdeaRepository) Create(ctx context.Context, rec *idea.Idea) error {
	query := `
		INSERT INTO ideas (` + ideaColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Name,
		rec.Title,
		rec.Description,
		rec.Category,
		rec.Status,
		rec.Votes,
		rec.SubmittedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}

	return nil
}

// Get retrieves an idea by ID
func (r *IdeaRepository) Get(ctx context.Context, id string) (*idea.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE id = ?`

	rec, err := scanIdea(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}

	return rec, nil
}

// List returns ideas matching the filters in submission order, or by votes
func (r *IdeaRepository) List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas`

	args := []interface{}{}
	conditions := []string{}

	if opts.Category != "" && !strings.EqualFold(opts.Category, idea.CategoryAll) {
		conditions = append(conditions, "category = ? COLLATE NOCASE")
		args = append(args, opts.Category)
	}
	if keyword := strings.ToLower(strings.TrimSpace(opts.Keyword)); keyword != "" {
		conditions = append(conditions, "(instr(unicode_lower(title), ?) > 0 OR instr(unicode_lower(description), ?) > 0)")
		args = append(args, keyword, keyword)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	if opts.SortByVotes {
		query += " ORDER BY votes DESC, seq ASC"
	} else {
		query += " ORDER BY seq ASC"
	}

	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	ideas := []idea.Idea{}
	for rows.Next() {
		rec, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating idea rows: %w", err)
	}

	return ideas, nil
}

// IncrementVotes atomically adds one vote and returns the new count
func (r *IdeaRepository) IncrementVotes(ctx context.Context, id string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	votes, err := incrementVotes(ctx, tx, id)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return votes, nil
}

// UpdateStatus sets the review status of an idea
func (r *IdeaRepository) UpdateStatus(ctx context.Context, id string, status idea.Status) error {
	result, err := r.db.ExecContext(ctx, `UPDATE ideas SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CountByCategory returns the number of ideas per category
func (r *IdeaRepository) CountByCategory(ctx context.Context) (map[idea.Category]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM ideas GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count ideas: %w", err)
	}
	defer rows.Close()

	counts := make(map[idea.Category]int)
	for rows.Next() {
		var category idea.Category
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return counts, nil
}

func incrementVotes(ctx context.Context, q execQuerier, id string) (int, error) {
	result, err := q.ExecContext(ctx, `UPDATE ideas SET votes = votes + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to increment votes: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, repository.ErrNotFound
	}

	var votes int
	if err := q.QueryRowContext(ctx, `SELECT votes FROM ideas WHERE id = ?`, id).Scan(&votes); err != nil {
		return 0, fmt.Errorf("failed to get new vote count: %w", err)
	}

	return votes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (*idea.Idea, error) {
	var rec idea.Idea
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Title,
		&rec.Description,
		&rec.Category,
		&rec.Status,
		&rec.Votes,
		&rec.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
