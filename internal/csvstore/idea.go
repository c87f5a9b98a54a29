package csvstore

import (
	"context"
	"io"
	"sort"

	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/repository"
)

// IdeaRepository implements idea.Repository over ideas.csv
type IdeaRepository struct {
	s *Store
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(s *Store) *IdeaRepository {
	return &IdeaRepository{s: s}
}

func (r *IdeaRepository) Create(ctx context.Context, rec *idea.Idea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ideas, err := load(r.s, IdeasFile, ReadIdeas)
	if err != nil {
		return err
	}
	if indexOf(ideas, rec.ID) >= 0 {
		return repository.ErrDuplicate
	}
	return r.s.appendRow(IdeasFile, ideaRow(*rec))
}

func (r *IdeaRepository) Get(ctx context.Context, id string) (*idea.Idea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ideas, err := load(r.s, IdeasFile, ReadIdeas)
	if err != nil {
		return nil, err
	}
	i := indexOf(ideas, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	rec := ideas[i]
	return &rec, nil
}

func (r *IdeaRepository) List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error) {
	r.s.mu.Lock()
	ideas, err := load(r.s, IdeasFile, ReadIdeas)
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	matched := []idea.Idea{}
	for _, rec := range ideas {
		if rec.Matches(opts) {
			matched = append(matched, rec)
		}
	}

	if opts.SortByVotes {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Votes > matched[j].Votes
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []idea.Idea{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (r *IdeaRepository) IncrementVotes(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.incrementLocked(id)
}

func (r *IdeaRepository) incrementLocked(id string) (int, error) {
	ideas, err := load(r.s, IdeasFile, ReadIdeas)
	if err != nil {
		return 0, err
	}
	i := indexOf(ideas, id)
	if i < 0 {
		return 0, repository.ErrNotFound
	}
	ideas[i].Votes++

	err = r.s.rewrite(IdeasFile, func(w io.Writer) error { return WriteIdeas(w, ideas) })
	if err != nil {
		return 0, err
	}
	return ideas[i].Votes, nil
}

func (r *IdeaRepository) UpdateStatus(ctx context.Context, id string, status idea.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ideas, err := load(r.s, IdeasFile, ReadIdeas)
	if err != nil {
		return err
	}
	i := indexOf(ideas, id)
	if i < 0 {
		return repository.ErrNotFound
	}
	ideas[i].Status = status

	return r.s.rewrite(IdeasFile, func(w io.Writer) error { return WriteIdeas(w, ideas) })
}

func (r *IdeaRepository) CountByCategory(ctx context.Context) (map[idea.Category]int, error) {
	r.s.mu.Lock()
	ideas, err := load(r.s, IdeasFile, ReadIdeas)
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	counts := make(map[idea.Category]int)
	for _, rec := range ideas {
		counts[rec.Category]++
	}
	return counts, nil
}

func indexOf(ideas []idea.Idea, id string) int {
	for i := range ideas {
		if ideas[i].ID == id {
			return i
		}
	}
	return -1
}
