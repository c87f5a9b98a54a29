package idea

import "errors"

var (
	// ErrIdeaNotFound indicates the idea doesn't exist.
	ErrIdeaNotFound = errors.New("idea not found")
	// ErrMissingField indicates Name, Title or Description was blank.
	ErrMissingField = errors.New("name, title and description are required")
	// ErrInvalidCategory indicates an unknown category.
	ErrInvalidCategory = errors.New("invalid idea category")
	// ErrInvalidStatus indicates an unknown status.
	ErrInvalidStatus = errors.New("invalid idea status")
	// ErrInvalidTransition indicates a disallowed status change.
	ErrInvalidTransition = errors.New("invalid idea status transition")
)
