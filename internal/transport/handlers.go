package transport

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/ideaportal/internal/csvstore"
	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
)

type submitIdeaRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type hasVotedResponse struct {
	IdeaID   string `json:"idea_id"`
	HasVoted bool   `json:"has_voted"`
}

func (s *Server) handleSubmitIdea(w http.ResponseWriter, r *http.Request) {
	var req submitIdeaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.ideas.Submit(r.Context(), idea.SubmitRequest{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if s.recorder != nil {
		s.recorder.IdeaSubmitted()
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	ideas, err := s.ideas.List(r.Context(), idea.ListOptions{
		Keyword:     q.Get("keyword"),
		Category:    q.Get("category"),
		SortByVotes: strings.EqualFold(q.Get("sort"), "votes"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ideas)
}

func (s *Server) handleGetIdea(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ideas.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	username, _ := UserFromContext(r.Context())
	updated, err := s.ideas.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status, username)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	username, _ := UserFromContext(r.Context())

	result, err := s.votes.Cast(r.Context(), vote.CastRequest{
		Username: username,
		IdeaID:   chi.URLParam(r, "id"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if s.recorder != nil {
		s.recorder.VoteCast(result.AlreadyVoted)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	username, _ := UserFromContext(r.Context())
	ideaID := chi.URLParam(r, "id")

	voted, err := s.votes.HasVoted(r.Context(), username, ideaID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hasVotedResponse{IdeaID: ideaID, HasVoted: voted})
}

func (s *Server) handleMyVotes(w http.ResponseWriter, r *http.Request) {
	username, _ := UserFromContext(r.Context())

	votes, err := s.votes.VotesByUser(r.Context(), username)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, votes)
}

func (s *Server) handleCategoryCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.ideas.CategoryCounts(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleTopIdeas(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	ideas, err := s.ideas.Top(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

func (s *Server) handleExportIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := s.ideas.List(r.Context(), idea.ListOptions{})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := csvstore.WriteIdeas(&buf, ideas); err != nil {
		s.writeServiceError(w, r, fmt.Errorf("encoding ideas: %w", err))
		return
	}
	writeCSV(w, "ideas.csv", buf.Bytes())
}

func (s *Server) handleExportVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := s.votes.All(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := csvstore.WriteVotes(&buf, votes); err != nil {
		s.writeServiceError(w, r, fmt.Errorf("encoding votes: %w", err))
		return
	}
	writeCSV(w, "votes.csv", buf.Bytes())
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	opts := activity.ListActivityOptions{Limit: limit}
	if ideaID := q.Get("idea_id"); ideaID != "" {
		opts.IdeaID = &ideaID
	}
	if raw := q.Get("type"); raw != "" {
		activityType, err := activity.ParseType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.ActivityType = &activityType
	}

	entries, err := s.activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// intParam parses an optional non-negative integer query value.
func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return n, nil
}
