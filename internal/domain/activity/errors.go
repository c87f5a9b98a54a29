package activity

import "errors"

// ErrInvalidInput indicates a missing entry or an unknown type filter.
var ErrInvalidInput = errors.New("invalid activity input")
