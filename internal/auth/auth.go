// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth logs users in and out, registers new accounts, and decides
// where an authenticated user should land.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/model"
	"github.com/olegiv/postdoc-portal/internal/session"
)

// API paths.
const (
	PathLogin    = "/auth/login/"
	PathRegister = "/auth/register/"
)

// Credentials are the username/password pair sent to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both fields are filled in.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

// Result is a successful login.
type Result struct {
	Tokens model.Tokens
	User   model.User
}

// loginResponse is the wire shape of the login payload.
type loginResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    *model.User `json:"user"`
}

func (r *loginResponse) Validate() error {
	if err := (model.Tokens{Access: r.Access, Refresh: r.Refresh}).Validate(); err != nil {
		return err
	}
	if r.User == nil {
		return errors.New("user: missing")
	}
	if err := r.User.Validate(); err != nil {
		return fmt.Errorf("user: %w", err)
	}
	return nil
}

// Client runs the authentication flows against the API.
type Client struct {
	api    *apiclient.Client
	seeder ProfileSeeder
	logger *slog.Logger
}

// NewClient creates an auth client. seeder may be nil, in which case no
// initial profile is created after registration.
func NewClient(api *apiclient.Client, seeder ProfileSeeder, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: api, seeder: seeder, logger: logger}
}

// Login exchanges credentials for tokens and the user record. Nothing is
// persisted.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Result, error) {
	var resp loginResponse
	err := c.api.Post(ctx, PathLogin, "", creds, &resp)
	if err != nil {
		var te *apiclient.TransportError
		if errors.As(err, &te) && te.Status != 0 {
			return nil, &apiclient.AuthenticationError{Op: "login", Err: err}
		}
		return nil, err
	}

	return &Result{
		Tokens: model.Tokens{Access: resp.Access, Refresh: resp.Refresh},
		User:   *resp.User,
	}, nil
}

// AutoLogin logs in, persists the session, and returns where the user
// should go next. On failure nothing is persisted.
func (c *Client) AutoLogin(ctx context.Context, store *session.Store, creds Credentials) (*Result, Destination, error) {
	res, err := c.Login(ctx, creds)
	if err != nil {
		return nil, DestinationLogin, err
	}

	persist(store, res)
	return res, RouteBasedOnRole(store), nil
}

func persist(store *session.Store, res *Result) {
	store.SetTokens(res.Tokens)
	user := res.User
	store.SetUser(&user)
}

// IsAuthenticated reports whether the session holds an access token and a
// parsable user.
func IsAuthenticated(store *session.Store) bool {
	return store.AccessToken() != "" && store.User() != nil
}

// Logout clears the session.
func Logout(store *session.Store) {
	store.Clear()
}
