// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content renders the portal's embedded markdown pages.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/postdoc-portal/internal/i18n"
)

// ErrNotFound is returned when a page exists in neither the requested nor
// the default language.
var ErrNotFound = errors.New("content page not found")

// Page names are limited to [a-z0-9_-] so they can never leave the FS root.
var validName = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Library renders markdown files laid out as <lang>/<name>.md. Rendered
// pages are kept in memory; the files are immutable once embedded.
type Library struct {
	fsys   fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy

	mu    sync.RWMutex
	pages map[string]template.HTML
}

// New creates a Library over fsys.
func New(fsys fs.FS) *Library {
	return &Library{
		fsys:   fsys,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
		pages:  make(map[string]template.HTML),
	}
}

// Page returns the HTML of name in lang, falling back to the default
// language.
func (l *Library) Page(lang, name string) (template.HTML, error) {
	if !validName.MatchString(name) {
		return "", ErrNotFound
	}

	key := lang + "/" + name
	l.mu.RLock()
	html, ok := l.pages[key]
	l.mu.RUnlock()
	if ok {
		return html, nil
	}

	src, err := fs.ReadFile(l.fsys, key+".md")
	if errors.Is(err, fs.ErrNotExist) && lang != i18n.DefaultLanguage {
		src, err = fs.ReadFile(l.fsys, i18n.DefaultLanguage+"/"+name+".md")
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}

	var buf bytes.Buffer
	if err := l.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("rendering %s: %w", key, err)
	}
	html = template.HTML(l.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized above

	l.mu.Lock()
	l.pages[key] = html
	l.mu.Unlock()
	return html, nil
}
