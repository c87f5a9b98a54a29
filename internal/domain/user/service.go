package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service authenticates the fixed set of configured users.
type Service struct {
	users  map[string]User
	dummy  []byte
	logger *slog.Logger
}

// NewService builds the credential table. Usernames are case-insensitive.
func NewService(users []User, logger *slog.Logger) (*Service, error) {
	table := make(map[string]User, len(users))
	for _, u := range users {
		key := strings.ToLower(strings.TrimSpace(u.Username))
		if key == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("%w: username and password_hash required", ErrInvalidInput)
		}
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			return nil, fmt.Errorf("%w: user %s: %v", ErrInvalidInput, u.Username, err)
		}
		if _, exists := table[key]; exists {
			return nil, fmt.Errorf("%w: duplicate user %s", ErrInvalidInput, u.Username)
		}
		u.Username = strings.TrimSpace(u.Username)
		table[key] = u
	}

	// Compared against for unknown users so both paths cost one bcrypt check.
	dummy, err := bcrypt.GenerateFromPassword([]byte("ideaportal"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &Service{users: table, dummy: dummy, logger: logger}, nil
}

// Authenticate checks a username and password against the table.
func (s *Service) Authenticate(_ context.Context, username, password string) (*User, error) {
	u, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if s.logger != nil {
			s.logger.Debug("password mismatch", "username", u.Username)
		}
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// Count returns the number of configured users.
func (s *Service) Count() int {
	return len(s.users)
}

// HashPassword returns a bcrypt hash suitable for the users config.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
