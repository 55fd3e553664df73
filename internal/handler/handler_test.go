// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/auth"
	"github.com/olegiv/postdoc-portal/internal/cache"
	"github.com/olegiv/postdoc-portal/internal/civil"
	"github.com/olegiv/postdoc-portal/internal/i18n"
	"github.com/olegiv/postdoc-portal/internal/version"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		panic(err)
	}
	m.Run()
}

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := r.ParseForm(); err != nil {
		panic(err)
	}
	return r
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		lang string
		d    time.Duration
		want string
	}{
		{"en", 30 * time.Second, "30 seconds"},
		{"en", time.Minute, "1 minute"},
		{"en", 15 * time.Minute, "15 minutes"},
		{"en", 90 * time.Minute, "1 hour"},
		{"en", 5 * time.Hour, "5 hours"},
		{"th", 15 * time.Minute, "15 นาที"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.lang, tt.d); got != tt.want {
			t.Errorf("formatDuration(%s, %v) = %q, want %q", tt.lang, tt.d, got, tt.want)
		}
	}
}

func TestParseUserAgent(t *testing.T) {
	desktop := parseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Equal(t, "Chrome", desktop.Browser)
	assert.Equal(t, "Windows", desktop.OS)
	assert.Equal(t, "desktop", desktop.DeviceType)

	unknown := parseUserAgent("")
	assert.Equal(t, "Unknown", unknown.Browser)
	assert.Equal(t, "Unknown", unknown.OS)
}

func TestFieldErrors(t *testing.T) {
	err := validation.Errors{
		"first_name":          validation.ErrRequired,
		"preferred_provinces": validation.NewError("validation_province_max", "must contain at most 3 provinces"),
		"custom":              validation.NewError("validation_unknown_code", "raw message"),
		"plain":               errors.New("not a validation error"),
	}

	got := fieldErrors("en", err)
	assert.Equal(t, "This field is required.", got["first_name"])
	assert.Equal(t, "Choose at most 3 provinces.", got["preferred_provinces"])
	assert.Equal(t, "raw message", got["custom"])
	assert.Equal(t, "not a validation error", got["plain"])

	assert.Nil(t, fieldErrors("en", errors.New("boom")))

	fromAPI := fmt.Errorf("checking existing postdoc: %w", &apiclient.MalformedResponseError{
		Path: "/postdoc/",
		Err:  validation.Errors{"preferred_provinces": validation.NewError("validation_province_max", "too many")},
	})
	assert.Nil(t, fieldErrors("en", fromAPI), "API payload errors are not form field errors")
}

func registrationFixture() auth.Registration {
	return auth.Registration{
		Username:  "newbie",
		Password:  "password123",
		Email:     "newbie@example.com",
		FirstName: "Nok",
		LastName:  "Kaew",
		Tel:       "0812345678",
	}
}

func TestValidateRegistration(t *testing.T) {
	errs := validateRegistration(registrationFixture(), "different")
	require.Contains(t, errs, "password_confirm")
	assert.Len(t, errs, 1)

	errs = validateRegistration(registrationFixture(), "password123")
	assert.Empty(t, errs)
}

func TestFormDate(t *testing.T) {
	r := postForm(url.Values{
		"birth_date_day":   {"5"},
		"birth_date_month": {"3"},
		"birth_date_year":  {" 2530 "},
	})
	assert.Equal(t, civil.DisplayDate{Year: "2530", Month: "03", Day: "05"}, formDate(r, "birth_date"))
	assert.True(t, formDate(r, "missing").IsZero())
}

func TestFormProvinces(t *testing.T) {
	r := postForm(url.Values{
		fieldPreferredProvinces: {"เชียงใหม่,ขอนแก่น", "เชียงใหม่", "ภูเก็ต", "ตรัง"},
		fieldRemoveProvince:     {"ขอนแก่น"},
	})

	// the fourth distinct province is over the limit; removal happens last
	assert.Equal(t, []string{"เชียงใหม่", "ภูเก็ต"}, formProvinces(r).Items())
}

func TestParseWorkHistoryForm(t *testing.T) {
	values := url.Values{
		"position":         {"Researcher"},
		"company_name":     {"NSTDA"},
		"start_date_day":   {"01"},
		"start_date_month": {"06"},
		"start_date_year":  {"2565"},
		"end_date_day":     {"31"},
		"end_date_month":   {"12"},
		"end_date_year":    {"2566"},
	}

	f := parseWorkHistoryForm(postForm(values))
	assert.False(t, f.IsCurrent)
	assert.Equal(t, "2566", f.EndDate.Year)

	values.Set("is_current", "on")
	f = parseWorkHistoryForm(postForm(values))
	assert.True(t, f.IsCurrent)
	assert.True(t, f.EndDate.IsZero(), "end date is ignored for a current position")
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthAnonymous(t *testing.T) {
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{MaxSize: 10})
	t.Cleanup(func() { _ = c.Close() })
	h := NewHealthHandler(stubPinger{}, c, version.Info{Version: "1.0.0"})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"status": "healthy"}, body)
}

func TestHealthDegradedWhenAPIUnreachable(t *testing.T) {
	h := NewHealthHandler(stubPinger{err: errors.New("connection refused")}, nil, version.Info{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")

	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused", "details are for staff only")

	rec = httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFormatBytes(t *testing.T) {
	tests := map[uint64]string{
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
