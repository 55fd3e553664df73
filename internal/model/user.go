// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the records exchanged with the remote API.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Tokens holds the access/refresh pair issued by the authentication endpoint.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Validate checks that both tokens are present.
func (t Tokens) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Access, validation.Required),
		validation.Field(&t.Refresh, validation.Required),
	)
}

// User identifies the caller. It is issued by the API and never modified
// by the portal.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsStaff   StaffFlag `json:"is_staff"`
}

// Validate checks the fields the portal relies on.
func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.ID, validation.Required, validation.Min(int64(1))),
	)
}

// StaffFlag keeps the raw JSON value of is_staff. The API is expected to
// send a boolean, but cookies written by older front-ends may carry strings
// or numbers, and the two role checks treat those differently.
type StaffFlag struct {
	raw json.RawMessage
}

// Staff returns a flag holding a JSON boolean.
func Staff(v bool) StaffFlag {
	return StaffFlag{raw: json.RawMessage(strconv.FormatBool(v))}
}

// RawStaffFlag returns a flag holding an arbitrary JSON value.
func RawStaffFlag(raw string) StaffFlag {
	return StaffFlag{raw: json.RawMessage(raw)}
}

// IsTrue reports whether the value is exactly the JSON boolean true.
func (f StaffFlag) IsTrue() bool {
	return bytes.Equal(bytes.TrimSpace(f.raw), []byte("true"))
}

// Truthy reports the loose boolean value: false for a missing value, null,
// false, 0 and the empty string; true for everything else.
func (f StaffFlag) Truthy() bool {
	raw := bytes.TrimSpace(f.raw)
	if len(raw) == 0 {
		return false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}

	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

// MarshalJSON writes the raw value back, or false when unset.
func (f StaffFlag) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(f.raw)) == 0 {
		return []byte("false"), nil
	}
	return f.raw, nil
}

// UnmarshalJSON stores the raw value without interpreting it.
func (f *StaffFlag) UnmarshalJSON(data []byte) error {
	f.raw = append(f.raw[:0], data...)
	return nil
}
