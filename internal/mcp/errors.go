package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/ideaportal/internal/domain/activity"
	"github.com/rpggio/ideaportal/internal/domain/idea"
	"github.com/rpggio/ideaportal/internal/domain/vote"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, idea.ErrMissingField):
		return &APIError{Code: "MISSING_FIELD", Message: "name, title and description are required", RecoveryHint: "Fill in every field before submitting"}
	case errors.Is(err, idea.ErrInvalidCategory):
		return &APIError{Code: "INVALID_CATEGORY", Message: "unknown category", Details: idea.Categories, RecoveryHint: "Use one of the listed categories"}
	case errors.Is(err, idea.ErrIdeaNotFound):
		return &APIError{Code: "IDEA_NOT_FOUND", Message: "idea not found", RecoveryHint: "Check the ID with list_ideas"}
	case errors.Is(err, idea.ErrInvalidStatus):
		return &APIError{Code: "INVALID_STATUS", Message: "unknown status", RecoveryHint: "Use Under Review, Approved or Rejected"}
	case errors.Is(err, idea.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "invalid status transition", RecoveryHint: "Decided ideas must go back to Under Review first"}
	case errors.Is(err, vote.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "idea_id is required"}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Use idea_submitted, vote_cast, vote_duplicate or status_changed"}
	default:
		return nil
	}
}
