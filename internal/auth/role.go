// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "github.com/olegiv/postdoc-portal/internal/session"

// Destination is where a user is sent after authenticating.
type Destination string

const (
	DestinationLogin     Destination = "/login"
	DestinationAdmin     Destination = "/admin-postdoc"
	DestinationDashboard Destination = "/user/dashboard"
)

// Path returns the URL path of the destination.
func (d Destination) Path() string { return string(d) }

// RouteBasedOnRole picks the landing page for the session user. Only a
// JSON boolean true in is_staff counts as staff here.
func RouteBasedOnRole(store *session.Store) Destination {
	user := store.User()
	if user == nil {
		return DestinationLogin
	}
	if user.IsStaff.IsTrue() {
		return DestinationAdmin
	}
	return DestinationDashboard
}

// CheckAdminAccess reports whether the session user may open admin pages.
// Unlike RouteBasedOnRole it accepts any truthy is_staff value, so a user
// with is_staff "true" lands on the dashboard yet passes this check.
func CheckAdminAccess(store *session.Store) bool {
	user := store.User()
	if user == nil {
		return false
	}
	return user.IsStaff.Truthy()
}
