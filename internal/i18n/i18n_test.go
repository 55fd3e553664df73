// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"testing"
)

func TestMain(m *testing.M) {
	if err := Init(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestInit(t *testing.T) {
	for _, lang := range SupportedLanguages {
		if TranslationCount(lang) == 0 {
			t.Errorf("expected %s translations to be loaded", lang)
		}
	}
}

func TestT(t *testing.T) {
	tests := []struct {
		lang     string
		key      string
		args     []any
		expected string
	}{
		{"en", "nav.login", nil, "Log in"},
		{"th", "nav.login", nil, "เข้าสู่ระบบ"},
		{"en", "directory.results", []any{3}, "3 profiles found"},
		// unknown language falls back to Thai
		{"de", "nav.login", nil, "เข้าสู่ระบบ"},
		{"en", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			if got := T(tt.lang, tt.key, tt.args...); got != tt.expected {
				t.Errorf("T(%q, %q, %v) = %q, want %q", tt.lang, tt.key, tt.args, got, tt.expected)
			}
		})
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"th", "th"},
		{"en-US", "en"},
		{"th-TH", "th"},
		{"de", "th"},
		{"invalid", "th"},
		{"en-US, th;q=0.9", "en"},
		{"th-TH, en;q=0.9", "th"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MatchLanguage(tt.input); got != tt.expected {
				t.Errorf("MatchLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		lang     string
		expected bool
	}{
		{"th", true},
		{"en", true},
		{"EN", true},
		{"ru", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSupported(tt.lang); got != tt.expected {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.lang, got, tt.expected)
		}
	}
}

func readKeys(t *testing.T, lang string) []string {
	t.Helper()
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	if msgFile.Language != lang {
		t.Errorf("%s declares language %q", path, msgFile.Language)
	}
	keys := make([]string, 0, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		if msg.Translation == "" {
			t.Errorf("%s: empty translation for %q", path, msg.ID)
		}
		keys = append(keys, msg.ID)
	}
	return keys
}

func TestTranslationFilesNoDuplicates(t *testing.T) {
	for _, lang := range SupportedLanguages {
		keys := readKeys(t, lang)
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			if seen[k] {
				t.Errorf("%s: duplicate id %q", lang, k)
			}
			seen[k] = true
		}
	}
}

func TestTranslationFilesSameKeys(t *testing.T) {
	ref := readKeys(t, DefaultLanguage)
	slices.Sort(ref)
	for _, lang := range SupportedLanguages[1:] {
		keys := readKeys(t, lang)
		slices.Sort(keys)
		if !slices.Equal(ref, keys) {
			for _, k := range ref {
				if !slices.Contains(keys, k) {
					t.Errorf("%s is missing %q", lang, k)
				}
			}
			for _, k := range keys {
				if !slices.Contains(ref, k) {
					t.Errorf("%s has %q which %s lacks", lang, k, DefaultLanguage)
				}
			}
		}
	}
}
