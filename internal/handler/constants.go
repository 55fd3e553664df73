// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the home page.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteRegisterProfile is the legacy post-registration route.
	RouteRegisterProfile = "/register-profile"
	// RouteForgotPassword is the forgot-password information page.
	RouteForgotPassword = "/forgot-password"

	// RouteFindPostdoc is the public directory.
	RouteFindPostdoc = "/find-postdoc"
	// RouteAdminPostdoc is the staff listing.
	RouteAdminPostdoc = "/admin-postdoc"
	// RouteArticles is the articles page.
	RouteArticles = "/articles"
	// RouteContact is the contact page.
	RouteContact = "/contact"

	// RouteUser is the mount point of the user area.
	RouteUser = "/user"
	// RouteDashboard is the dashboard, relative to RouteUser.
	RouteDashboard = "/dashboard"
	// RouteProfile is the profile form, relative to RouteUser.
	RouteProfile = "/profile"
	// RouteEducation is the education form, relative to RouteUser.
	RouteEducation = "/education"
	// RouteCertificate is the training form, relative to RouteUser.
	RouteCertificate = "/certificate"
	// RouteWorkHistory is the work-history form, relative to RouteUser.
	RouteWorkHistory = "/work-history"

	// RouteHealth is the health check.
	RouteHealth = "/health"
	// RouteHealthLive is the liveness probe.
	RouteHealthLive = "/health/live"
	// RouteHealthReady is the readiness probe.
	RouteHealthReady = "/health/ready"

	// RouteRobots is robots.txt.
	RouteRobots = "/robots.txt"
	// RouteSitemap is sitemap.xml.
	RouteSitemap = "/sitemap.xml"
)

// Redirect targets.
const (
	redirectLogin       = RouteLogin
	redirectRegister    = RouteRegister
	redirectFindPostdoc = RouteFindPostdoc
	redirectUser        = RouteUser + RouteDashboard
)

// Template names.
const (
	tmplHome           = "pages/home"
	tmplArticles       = "pages/articles"
	tmplContact        = "pages/contact"
	tmplDirectory      = "pages/directory"
	tmplDirectoryEntry = "pages/directory_entry"
	tmplNotFound       = "pages/not_found"
	tmplError          = "pages/error"

	tmplLogin          = "auth/login"
	tmplRegister       = "auth/register"
	tmplForgotPassword = "auth/forgot_password"

	tmplDashboard   = "user/dashboard"
	tmplProfile     = "user/profile"
	tmplEducation   = "user/education"
	tmplCertificate = "user/certificate"
	tmplWorkHistory = "user/work_history"

	tmplAdminPostdoc = "admin/postdoc"
)

// formYears is how many display-calendar years the date selectors offer.
const formYears = 80
