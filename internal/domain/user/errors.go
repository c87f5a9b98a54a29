package user

import "errors"

var (
	// ErrInvalidCredentials indicates an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput indicates an unusable account definition.
	ErrInvalidInput = errors.New("invalid user input")
)
