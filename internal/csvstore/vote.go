package csvstore

import (
	"context"
	"fmt"
	"io"

	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/rpggio/ideaportal/internal/repository"
)

// VoteRepository implements vote.Repository over votes.csv
type VoteRepository struct {
	s     *Store
	ideas *IdeaRepository
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(s *Store) *VoteRepository {
	return &VoteRepository{s: s, ideas: NewIdeaRepository(s)}
}

func (r *VoteRepository) HasVoted(ctx context.Context, username, ideaID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.hasVotedLocked(username, ideaID)
}

func (r *VoteRepository) hasVotedLocked(username, ideaID string) (bool, error) {
	votes, err := load(r.s, VotesFile, ReadVotes)
	if err != nil {
		return false, err
	}
	for _, v := range votes {
		if v.Username == username && v.IdeaID == ideaID {
			return true, nil
		}
	}
	return false, nil
}

// Cast checks the ledger, increments the counter and appends the vote in one
// critical section. The idea table is restored if the append fails.
func (r *VoteRepository) Cast(ctx context.Context, v *vote.Vote) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	voted, err := r.hasVotedLocked(v.Username, v.IdeaID)
	if err != nil {
		return 0, err
	}
	if voted {
		return 0, repository.ErrDuplicate
	}

	before, err := load(r.s, IdeasFile, ReadIdeas)
	if err != nil {
		return 0, err
	}

	count, err := r.ideas.incrementLocked(v.IdeaID)
	if err != nil {
		return 0, err
	}

	if err := r.s.appendRow(VotesFile, voteRow(*v)); err != nil {
		restoreErr := r.s.rewrite(IdeasFile, func(w io.Writer) error { return WriteIdeas(w, before) })
		if restoreErr != nil && r.s.logger != nil {
			r.s.logger.Error("failed to restore ideas after vote append failure",
				"idea_id", v.IdeaID, "error", restoreErr)
		}
		return 0, fmt.Errorf("recording vote: %w", err)
	}

	return count, nil
}

func (r *VoteRepository) ListByUser(ctx context.Context, username string) ([]vote.Vote, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	mine := []vote.Vote{}
	for _, v := range all {
		if v.Username == username {
			mine = append(mine, v)
		}
	}
	return mine, nil
}

func (r *VoteRepository) List(ctx context.Context) ([]vote.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	votes, err := load(r.s, VotesFile, ReadVotes)
	if err != nil {
		return nil, err
	}
	if votes == nil {
		votes = []vote.Vote{}
	}
	return votes, nil
}

var _ idea.Repository = (*IdeaRepository)(nil)
var _ vote.Repository = (*VoteRepository)(nil)
