package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/rpggio/ideaportal/internal/repository"
	"github.com/stretchr/testify/require"
)

func newVote(username, ideaID string) *vote.Vote {
	return &vote.Vote{
		Username:  username,
		IdeaID:    ideaID,
		IdeaTitle: "Eco Box",
		VotedAt:   time.Now().UTC(),
	}
}

func TestVoteRepository_CastHasVoted(t *testing.T) {
	db := NewTestDB(t)
	ideas := NewIdeaRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	insertIdea(t, ideas, "i1", "Eco Box", "Recyclable packaging", idea.CategoryOperations)
	insertIdea(t, ideas, "i2", "Smart AI", "Assistant", idea.CategoryTechnology)

	_, err := votes.Cast(ctx, newVote("bob", "i1"))
	require.NoError(t, err)

	voted, err := votes.HasVoted(ctx, "bob", "i1")
	require.NoError(t, err)
	require.True(t, voted)

	voted, err = votes.HasVoted(ctx, "bob", "i2")
	require.NoError(t, err)
	require.False(t, voted)

	voted, err = votes.HasVoted(ctx, "carol", "i1")
	require.NoError(t, err)
	require.False(t, voted)

	_, err = votes.Cast(ctx, newVote("bob", "i1"))
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestVoteRepository_Cast(t *testing.T) {
	db := NewTestDB(t)
	ideas := NewIdeaRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	insertIdea(t, ideas, "i1", "Eco Box", "Recyclable packaging", idea.CategoryOperations)

	count, err := votes.Cast(ctx, newVote("bob", "i1"))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = votes.Cast(ctx, newVote("carol", "i1"))
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = votes.Cast(ctx, newVote("bob", "i1"))
	require.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := ideas.Get(ctx, "i1")
	require.NoError(t, err)
	require.Equal(t, 2, got.Votes, "rejected duplicate must not change the counter")

	_, err = votes.Cast(ctx, newVote("bob", "missing"))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVoteRepository_ConcurrentCast(t *testing.T) {
	db := NewTestDB(t)
	ideas := NewIdeaRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	insertIdea(t, ideas, "i1", "Eco Box", "Recyclable packaging", idea.CategoryOperations)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := votes.Cast(ctx, newVote("bob", "i1"))
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			if !errors.Is(err, repository.ErrDuplicate) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, accepted)

	got, err := ideas.Get(ctx, "i1")
	require.NoError(t, err)
	require.Equal(t, 1, got.Votes)
}

func TestVoteRepository_List(t *testing.T) {
	db := NewTestDB(t)
	ideas := NewIdeaRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	insertIdea(t, ideas, "i1", "Eco Box", "Recyclable packaging", idea.CategoryOperations)
	insertIdea(t, ideas, "i2", "Smart AI", "Assistant", idea.CategoryTechnology)

	_, err := votes.Cast(ctx, newVote("bob", "i1"))
	require.NoError(t, err)
	_, err = votes.Cast(ctx, newVote("bob", "i2"))
	require.NoError(t, err)
	_, err = votes.Cast(ctx, newVote("carol", "i2"))
	require.NoError(t, err)

	mine, err := votes.ListByUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "i1", mine[0].IdeaID)
	require.Equal(t, "i2", mine[1].IdeaID)

	all, err := votes.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "carol", all[2].Username)
}
