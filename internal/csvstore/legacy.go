package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rpggio/ideaportal/internal/domain/vote"
)

// upgradeLegacy rewrites tables saved before ideas had ids into the current
// layout. Legacy votes are matched to the first idea with the same title;
// votes for unknown titles and repeats of a pair are dropped.
func (s *Store) upgradeLegacy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	legacyIdeas, err := s.hasHeader(IdeasFile, LegacyIdeaHeader)
	if err != nil {
		return err
	}
	if legacyIdeas {
		ideas, err := load(s, IdeasFile, ReadIdeas)
		if err != nil {
			return err
		}
		if err := s.rewrite(IdeasFile, func(w io.Writer) error { return WriteIdeas(w, ideas) }); err != nil {
			return err
		}
		if s.logger != nil {
			s.logger.Info("upgraded legacy table", "file", s.path(IdeasFile), "rows", len(ideas))
		}
	}

	legacyVotes, err := s.hasHeader(VotesFile, LegacyVoteHeader)
	if err != nil || !legacyVotes {
		return err
	}

	ideas, err := load(s, IdeasFile, ReadIdeas)
	if err != nil {
		return err
	}
	byTitle := make(map[string]string, len(ideas))
	for _, rec := range ideas {
		if _, ok := byTitle[rec.Title]; !ok {
			byTitle[rec.Title] = rec.ID
		}
	}

	old, err := load(s, VotesFile, ReadVotes)
	if err != nil {
		return err
	}
	seen := make(map[[2]string]bool, len(old))
	votes := make([]vote.Vote, 0, len(old))
	for _, v := range old {
		id, ok := byTitle[v.IdeaTitle]
		if !ok || seen[[2]string{v.Username, id}] {
			continue
		}
		seen[[2]string{v.Username, id}] = true
		v.IdeaID = id
		votes = append(votes, v)
	}

	if err := s.rewrite(VotesFile, func(w io.Writer) error { return WriteVotes(w, votes) }); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("upgraded legacy table", "file", s.path(VotesFile),
			"rows", len(votes), "dropped", len(old)-len(votes))
	}
	return nil
}

// hasHeader reports whether the table's first record equals header.
func (s *Store) hasHeader(name string, header []string) (bool, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	first, err := cr.Read()
	if err != nil {
		// Empty tables are not legacy; unreadable ones are reported by load.
		return false, nil
	}
	return slices.Equal(first, header), nil
}
