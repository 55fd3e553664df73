// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// NewFlashManager creates the server-side session manager used for flash
// messages between a redirect and the next render. Authentication state is
// never stored here; it lives in the cookies handled by Store.
func NewFlashManager(isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = memstore.New()

	sm.Lifetime = 1 * time.Hour
	sm.Cookie.Name = "portal_flash"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only
	sm.Cookie.Path = "/"

	return sm
}
