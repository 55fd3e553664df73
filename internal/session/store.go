// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session persists the authenticated user's tokens and identity.
//
// The state lives in three browser cookies (accessToken, refreshToken and
// user) that expire seven days after they were written. Store reads and
// writes them through a Backend so handlers never touch cookies directly.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/postdoc-portal/internal/model"
)

// Cookie names.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Lifetime is how long the session entries are kept.
const Lifetime = 7 * 24 * time.Hour

// ErrMalformedSession is logged when the persisted user cannot be parsed.
// The session is then treated as absent.
var ErrMalformedSession = errors.New("malformed session")

// Store gives typed access to the session entries of one request.
type Store struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates a store on top of backend.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Store) expiry() time.Time {
	return s.now().Add(Lifetime)
}

// SetTokens persists both tokens.
func (s *Store) SetTokens(tokens model.Tokens) {
	exp := s.expiry()
	s.backend.Set(KeyAccessToken, tokens.Access, exp)
	s.backend.Set(KeyRefreshToken, tokens.Refresh, exp)
}

// SetUser persists the user as JSON. A nil or malformed user is logged
// and nothing is written.
func (s *Store) SetUser(user *model.User) {
	if user == nil {
		s.logger.Error("refusing to store empty user in session")
		return
	}
	if err := user.Validate(); err != nil {
		s.logger.Error("refusing to store invalid user in session", "error", err)
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("failed to encode session user", "error", err)
		return
	}
	s.backend.Set(KeyUser, string(data), s.expiry())
}

// User returns the persisted user, or nil when there is none or it cannot
// be parsed.
func (s *Store) User() *model.User {
	raw, ok := s.backend.Get(KeyUser)
	if !ok || raw == "" {
		return nil
	}

	user, err := decodeUser(raw)
	if err != nil {
		s.logger.Warn("ignoring session user", "error", err)
		return nil
	}
	return user
}

func decodeUser(raw string) (*model.User, error) {
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	return &user, nil
}

// AccessToken returns the access token, or "" when absent.
func (s *Store) AccessToken() string {
	v, _ := s.backend.Get(KeyAccessToken)
	return v
}

// RefreshToken returns the refresh token, or "" when absent.
func (s *Store) RefreshToken() string {
	v, _ := s.backend.Get(KeyRefreshToken)
	return v
}

// Clear removes all session entries.
func (s *Store) Clear() {
	s.backend.Delete(KeyAccessToken)
	s.backend.Delete(KeyRefreshToken)
	s.backend.Delete(KeyUser)
}
