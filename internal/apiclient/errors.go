// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is returned when the API cannot be reached or answers with
// a non-2xx status. Status is 0 for network failures.
type TransportError struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthenticationError is returned when login or registration is rejected.
type AuthenticationError struct {
	Op  string // "login" or "register"
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s failed: invalid credentials: %v", e.Op, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when a 2xx payload cannot be decoded
// or fails validation.
type MalformedResponseError struct {
	Path string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Path, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ErrNoSession is returned by authenticated calls made without a token or user.
var ErrNoSession = errors.New("no active session")

// IsUnauthorized reports whether err carries a 401 or 403 from the API.
func IsUnauthorized(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.Status == http.StatusUnauthorized || te.Status == http.StatusForbidden
}

// IsNotFound reports whether err carries a 404 from the API.
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Status == http.StatusNotFound
}
