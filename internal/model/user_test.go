// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestStaffFlag(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		strict bool
		truthy bool
	}{
		{"boolean true", `true`, true, true},
		{"boolean false", `false`, false, false},
		{"string true", `"true"`, false, true},
		{"string false", `"false"`, false, true},
		{"empty string", `""`, false, false},
		{"one", `1`, false, true},
		{"zero", `0`, false, false},
		{"null", `null`, false, false},
		{"missing", ``, false, false},
		{"object", `{}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := RawStaffFlag(tt.raw)
			if got := f.IsTrue(); got != tt.strict {
				t.Errorf("IsTrue() = %v, want %v", got, tt.strict)
			}
			if got := f.Truthy(); got != tt.truthy {
				t.Errorf("Truthy() = %v, want %v", got, tt.truthy)
			}
		})
	}
}

func TestUserJSONKeepsRawStaffFlag(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":7,"username":"somchai","is_staff":"true"}`), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if u.IsStaff.IsTrue() {
		t.Error("string \"true\" must not be strictly staff")
	}
	if !u.IsStaff.Truthy() {
		t.Error("string \"true\" must be truthy")
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back User
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal round trip: %v", err)
	}
	if back.IsStaff.IsTrue() || !back.IsStaff.Truthy() {
		t.Errorf("flag changed across round trip: %s", out)
	}
}

func TestUserMissingStaffFlagMarshalsFalse(t *testing.T) {
	out, err := json.Marshal(User{ID: 1, Username: "a"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["is_staff"] != false {
		t.Errorf("is_staff = %v, want false", m["is_staff"])
	}
}

func TestUserValidate(t *testing.T) {
	if err := (User{ID: 3}).Validate(); err != nil {
		t.Errorf("valid user: %v", err)
	}
	if err := (User{}).Validate(); err == nil {
		t.Error("expected error for missing id")
	}
	if err := (User{ID: -1}).Validate(); err == nil {
		t.Error("expected error for negative id")
	}
}

func TestTokensValidate(t *testing.T) {
	if err := (Tokens{Access: "a", Refresh: "r"}).Validate(); err != nil {
		t.Errorf("valid tokens: %v", err)
	}
	if err := (Tokens{Access: "a"}).Validate(); err == nil {
		t.Error("expected error for missing refresh token")
	}
	if err := (Tokens{Refresh: "r"}).Validate(); err == nil {
		t.Error("expected error for missing access token")
	}
}
