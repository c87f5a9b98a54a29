package vote

import "errors"

// ErrInvalidInput indicates a missing username or idea ID.
var ErrInvalidInput = errors.New("invalid vote input")
