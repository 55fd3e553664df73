// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apitest

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenVerification(t *testing.T) {
	s := New(t)
	id := s.AddUser("mali", "secret-pass", "true")

	r := httptest.NewRequest(http.MethodGet, "/educations/", nil)
	r.Header.Set("Authorization", "Bearer "+s.Token(id))
	got, ok := s.verify(r)
	if !ok || got != id {
		t.Errorf("verify() = %d, %v; want %d, true", got, ok, id)
	}

	r.Header.Set("Authorization", "Bearer not-a-jwt")
	if _, ok := s.verify(r); ok {
		t.Error("verify() accepted a garbage token")
	}

	refresh, err := s.sign(id, "refresh", 0)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Authorization", "Bearer "+refresh)
	if _, ok := s.verify(r); ok {
		t.Error("verify() accepted a refresh token")
	}
}

func TestCredential(t *testing.T) {
	c := newCredential("hunter22")
	if !c.matches("hunter22") {
		t.Error("matching password rejected")
	}
	if c.matches("hunter23") {
		t.Error("wrong password accepted")
	}
	if (credential{}).matches("") {
		t.Error("empty credential accepted")
	}
}

func TestSeedAndPath(t *testing.T) {
	s := New(t)
	id := s.Seed("educations", map[string]any{"user_id": float64(3)})
	if id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}
	if got := Path("educations", id); got != "/educations/1/" {
		t.Errorf("Path() = %q", got)
	}
	if got := Path("trainings", 0); got != "/trainings/" {
		t.Errorf("Path() = %q", got)
	}
	if n := len(s.Records("educations")); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
}
