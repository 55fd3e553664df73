// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/model"
	"github.com/olegiv/postdoc-portal/internal/session"
)

// Registration is the payload of the register endpoint.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Tel       string `json:"tel"`
}

// Validate checks the fields the portal requires before calling the API.
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 150)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Tel, validation.Required, is.Digit, validation.Length(9, 10)),
	)
}

// ProfileSeeder creates the initial profile of a freshly registered user.
type ProfileSeeder interface {
	SeedProfile(ctx context.Context, store *session.Store, p model.Profile) error
}

// PartialRegistrationError reports a registration whose account was created
// and logged in but whose initial profile could not be stored.
type PartialRegistrationError struct {
	UserID int64
	Err    error
}

func (e *PartialRegistrationError) Error() string {
	return fmt.Sprintf("registered user %d but could not create profile: %v", e.UserID, e.Err)
}

func (e *PartialRegistrationError) Unwrap() error { return e.Err }

// RegisterResult is the outcome of Register.
type RegisterResult struct {
	Result
	Destination Destination

	// Partial is set when the profile seed failed. The session is still valid.
	Partial *PartialRegistrationError
}

// Register creates the account, logs in, persists the session and seeds
// the profile. A failed seed is logged and reported through the result.
func (c *Client) Register(ctx context.Context, store *session.Store, reg Registration) (*RegisterResult, error) {
	if err := c.api.Post(ctx, PathRegister, "", reg, nil); err != nil {
		var te *apiclient.TransportError
		if errors.As(err, &te) && te.Status != 0 {
			return nil, &apiclient.AuthenticationError{Op: "register", Err: err}
		}
		return nil, err
	}

	res, err := c.Login(ctx, Credentials{Username: reg.Username, Password: reg.Password})
	if err != nil {
		return nil, err
	}
	persist(store, res)

	out := &RegisterResult{Result: *res}

	if c.seeder != nil {
		seed := model.Profile{
			Owned:       model.Owned{UserID: res.User.ID},
			FirstName:   reg.FirstName,
			LastName:    reg.LastName,
			Email:       reg.Email,
			PhoneNumber: reg.Tel,
		}
		if err := c.seeder.SeedProfile(ctx, store, seed); err != nil {
			out.Partial = &PartialRegistrationError{UserID: res.User.ID, Err: err}
			c.logger.Error("profile seed after registration failed",
				"user_id", res.User.ID,
				"error", err,
			)
		}
	}

	out.Destination = RouteBasedOnRole(store)
	return out, nil
}
