// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Backend persists named string values with an expiry.
type Backend interface {
	Get(name string) (string, bool)
	Set(name, value string, expires time.Time)
	Delete(name string)
}

// CookieBackend stores values in browser cookies for the lifetime of one
// request. Writes are recorded so that later reads in the same request see
// them before the browser sends them back.
type CookieBackend struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	mu      sync.Mutex
	written map[string]*string // nil value marks a deletion
}

// NewCookieBackend creates a backend bound to one request/response pair.
// secure sets the Secure attribute and should be true in production.
func NewCookieBackend(w http.ResponseWriter, r *http.Request, secure bool) *CookieBackend {
	return &CookieBackend{
		w:       w,
		r:       r,
		secure:  secure,
		written: make(map[string]*string),
	}
}

// Get returns the value of the named cookie.
func (b *CookieBackend) Get(name string) (string, bool) {
	b.mu.Lock()
	v, ok := b.written[name]
	b.mu.Unlock()
	if ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}

	c, err := b.r.Cookie(name)
	if err != nil {
		return "", false
	}
	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

// Set writes the named cookie with the given expiry.
func (b *CookieBackend) Set(name, value string, expires time.Time) {
	b.mu.Lock()
	b.written[name] = &value
	b.mu.Unlock()

	http.SetCookie(b.w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		Secure:   b.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Delete expires the named cookie.
func (b *CookieBackend) Delete(name string) {
	b.mu.Lock()
	b.written[name] = nil
	b.mu.Unlock()

	http.SetCookie(b.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   b.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryBackend keeps values in memory. Expired entries are not returned.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the stored value if present and not expired.
func (b *MemoryBackend) Get(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[name]
	if !ok || !b.now().Before(e.expires) {
		return "", false
	}
	return e.value, true
}

// Set stores a value until expires.
func (b *MemoryBackend) Set(name, value string, expires time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[name] = memoryEntry{value: value, expires: expires}
}

// Delete removes a value.
func (b *MemoryBackend) Delete(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, name)
}

