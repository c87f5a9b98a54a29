package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
	"github.com/rpggio/ideaportal/internal/repository"
)

var (
	IdeaHeader     = []string{"ID", "Name", "Title", "Description", "Category", "Status", "Votes", "SubmittedAt"}
	VoteHeader     = []string{"Username", "IdeaID", "IdeaTitle", "VotedAt"}
	ActivityHeader = []string{"ID", "IdeaID", "Username", "Type", "Summary", "Details", "CreatedAt"}

	// Tables saved before ideas had ids. Votes referenced ideas by title.
	LegacyIdeaHeader = []string{"Name", "Title", "Description", "Category", "Votes"}
	LegacyVoteHeader = []string{"Username", "IdeaTitle"}
)

const timeLayout = time.RFC3339Nano

// WriteIdeas writes the header and one row per idea.
func WriteIdeas(w io.Writer, ideas []idea.Idea) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(IdeaHeader); err != nil {
		return err
	}
	for _, rec := range ideas {
		if err := cw.Write(ideaRow(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadIdeas parses a table written by WriteIdeas, or a legacy table without
// ids, whose rows get ids derived from their position and title.
func ReadIdeas(r io.Reader) ([]idea.Idea, error) {
	format, rows, err := readTable(r, IdeaHeader, LegacyIdeaHeader)
	if err != nil {
		return nil, err
	}
	if format == 1 {
		return legacyIdeas(rows)
	}
	ideas := make([]idea.Idea, 0, len(rows))
	for i, row := range rows {
		votes, err := strconv.Atoi(row[6])
		if err != nil || votes < 0 {
			return nil, fmt.Errorf("%w: row %d: invalid votes %q", repository.ErrCorrupt, i+2, row[6])
		}
		submittedAt, err := parseTime(row[7])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", repository.ErrCorrupt, i+2, err)
		}
		ideas = append(ideas, idea.Idea{
			ID:          row[0],
			Name:        row[1],
			Title:       row[2],
			Description: row[3],
			Category:    idea.Category(row[4]),
			Status:      idea.Status(row[5]),
			Votes:       votes,
			SubmittedAt: submittedAt,
		})
	}
	return ideas, nil
}

func legacyIdeas(rows [][]string) ([]idea.Idea, error) {
	ideas := make([]idea.Idea, 0, len(rows))
	for i, row := range rows {
		votes, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil || votes < 0 {
			return nil, fmt.Errorf("%w: row %d: invalid votes %q", repository.ErrCorrupt, i+2, row[4])
		}
		category, err := idea.ParseCategory(row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid category %q", repository.ErrCorrupt, i+2, row[3])
		}
		ideas = append(ideas, idea.Idea{
			ID:          LegacyIdeaID(i, row[1]),
			Name:        row[0],
			Title:       row[1],
			Description: row[2],
			Category:    category,
			Status:      idea.StatusUnderReview,
			Votes:       votes,
		})
	}
	return ideas, nil
}

// LegacyIdeaID is stable for a given row so repeated reads agree.
func LegacyIdeaID(row int, title string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("ideaportal:legacy:%d:%s", row, title))).String()
}

// WriteVotes writes the header and one row per ledger entry.
func WriteVotes(w io.Writer, votes []vote.Vote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(VoteHeader); err != nil {
		return err
	}
	for _, v := range votes {
		if err := cw.Write(voteRow(v)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadVotes parses a table written by WriteVotes. Legacy rows carry only the
// username and title; IdeaID is left empty for the caller to resolve.
func ReadVotes(r io.Reader) ([]vote.Vote, error) {
	format, rows, err := readTable(r, VoteHeader, LegacyVoteHeader)
	if err != nil {
		return nil, err
	}
	votes := make([]vote.Vote, 0, len(rows))
	if format == 1 {
		for _, row := range rows {
			votes = append(votes, vote.Vote{Username: row[0], IdeaTitle: row[1]})
		}
		return votes, nil
	}
	for i, row := range rows {
		votedAt, err := parseTime(row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", repository.ErrCorrupt, i+2, err)
		}
		votes = append(votes, vote.Vote{
			Username:  row[0],
			IdeaID:    row[1],
			IdeaTitle: row[2],
			VotedAt:   votedAt,
		})
	}
	return votes, nil
}

func readActivity(r io.Reader) ([]activity.ActivityEntry, error) {
	_, rows, err := readTable(r, ActivityHeader)
	if err != nil {
		return nil, err
	}
	entries := make([]activity.ActivityEntry, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid id %q", repository.ErrCorrupt, i+2, row[0])
		}
		createdAt, err := parseTime(row[6])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", repository.ErrCorrupt, i+2, err)
		}
		entry := activity.ActivityEntry{
			ID:           id,
			Username:     row[2],
			ActivityType: activity.ActivityType(row[3]),
			Summary:      row[4],
			Details:      row[5],
			CreatedAt:    createdAt,
		}
		if row[1] != "" {
			ideaID := row[1]
			entry.IdeaID = &ideaID
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func ideaRow(rec idea.Idea) []string {
	return []string{
		rec.ID,
		rec.Name,
		rec.Title,
		rec.Description,
		string(rec.Category),
		string(rec.Status),
		strconv.Itoa(rec.Votes),
		formatTime(rec.SubmittedAt),
	}
}

func voteRow(v vote.Vote) []string {
	return []string{v.Username, v.IdeaID, v.IdeaTitle, formatTime(v.VotedAt)}
}

func activityRow(entry activity.ActivityEntry) []string {
	ideaID := ""
	if entry.IdeaID != nil {
		ideaID = *entry.IdeaID
	}
	return []string{
		strconv.FormatInt(entry.ID, 10),
		ideaID,
		entry.Username,
		string(entry.ActivityType),
		entry.Summary,
		entry.Details,
		formatTime(entry.CreatedAt),
	}
}

// readTable returns the index of the accepted header the table starts with
// and its data rows. Every row must have as many fields as the header. An
// empty input is an empty table.
func readTable(r io.Reader, accepted ...[]string) (int, [][]string, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", repository.ErrCorrupt, err)
	}
	if len(records) == 0 {
		return 0, nil, nil
	}
	for format, header := range accepted {
		if slices.Equal(records[0], header) {
			return format, records[1:], nil
		}
	}
	want := accepted[0]
	for i, name := range want {
		if i >= len(records[0]) || records[0][i] != name {
			got := ""
			if i < len(records[0]) {
				got = records[0][i]
			}
			return 0, nil, fmt.Errorf("%w: unexpected header %q, want %q", repository.ErrCorrupt, got, name)
		}
	}
	return 0, nil, fmt.Errorf("%w: header has %d fields, want %d", repository.ErrCorrupt, len(records[0]), len(want))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}
