// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mileusna/useragent"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/auth"
	"github.com/olegiv/postdoc-portal/internal/i18n"
	"github.com/olegiv/postdoc-portal/internal/middleware"
	"github.com/olegiv/postdoc-portal/internal/render"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	auth            *auth.Client
	renderer        *render.Renderer
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable
// account lockout.
func NewAuthHandler(client *auth.Client, renderer *render.Renderer, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		auth:            client,
		renderer:        renderer,
		loginProtection: lp,
		logger:          logger,
	}
}

// loginForm is what the login template shows again after a failure.
type loginForm struct {
	Username string
}

// registerForm is what the register template shows again after a failure.
// Passwords are never echoed back.
type registerForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Tel       string
}

// redirectIfAuthenticated sends a logged-in user to their landing page.
func redirectIfAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	store := middleware.GetSession(r)
	if store == nil || !auth.IsAuthenticated(store) {
		return false
	}
	http.Redirect(w, r, auth.RouteBasedOnRole(store).Path(), http.StatusSeeOther)
	return true
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if redirectIfAuthenticated(w, r) {
		return
	}
	data := pageData(r, "auth.login")
	data.Form = loginForm{Username: r.URL.Query().Get("username")}
	renderPage(w, r, h.renderer, http.StatusOK, tmplLogin, data)
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	creds := auth.Credentials{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	if err := creds.Validate(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.username_password_required"))
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(creds.Username); locked {
			h.logger.WarnContext(r.Context(), "login attempt on locked account",
				"username", creds.Username,
				"ip", middleware.ClientIP(r),
			)
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.account_locked", formatDuration(lang, remaining)))
			return
		}
	}

	store := middleware.GetSession(r)
	if store == nil {
		logAndInternalError(w, "login without session middleware")
		return
	}

	res, dest, err := h.auth.AutoLogin(r.Context(), store, creds)
	if err != nil {
		var authErr *apiclient.AuthenticationError
		if !errors.As(err, &authErr) {
			h.logger.ErrorContext(r.Context(), "login request failed", "username", creds.Username, "error", err)
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "error.api_unavailable"))
			return
		}

		h.logger.InfoContext(r.Context(), "login failed",
			"username", creds.Username,
			"ip", middleware.ClientIP(r),
		)
		h.rejectLogin(w, r, lang, creds.Username)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(creds.Username)
	}

	client := parseUserAgent(r.UserAgent())
	h.logger.InfoContext(r.Context(), "user logged in",
		"user_id", res.User.ID,
		"username", res.User.Username,
		"destination", dest.Path(),
		"ip", middleware.ClientIP(r),
		"browser", client.Browser,
		"os", client.OS,
		"device", client.DeviceType,
	)

	name := res.User.FirstName
	if name == "" {
		name = res.User.Username
	}
	flashSuccess(w, r, h.renderer, dest.Path(), i18n.T(lang, "auth.welcome_back", name))
}

// rejectLogin records a failed attempt and tells the user how it went.
func (h *AuthHandler) rejectLogin(w http.ResponseWriter, r *http.Request, lang, username string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
			h.logger.WarnContext(r.Context(), "account locked due to failed attempts",
				"username", username,
				"duration", lockDuration.String(),
			)
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.too_many_attempts", formatDuration(lang, lockDuration)))
			return
		}
		remaining := h.loginProtection.GetRemainingAttempts(username)
		if remaining <= 3 && remaining > 0 {
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.attempts_remaining", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.invalid_credentials"))
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if redirectIfAuthenticated(w, r) {
		return
	}
	data := pageData(r, "auth.register")
	data.Form = registerForm{}
	renderPage(w, r, h.renderer, http.StatusOK, tmplRegister, data)
}

// Register handles the registration form submission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	reg := auth.Registration{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Password:  r.FormValue("password"),
		Email:     strings.TrimSpace(r.FormValue("email")),
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Tel:       strings.TrimSpace(r.FormValue("tel")),
	}
	form := registerForm{
		Username:  reg.Username,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Tel:       reg.Tel,
	}

	errs := validateRegistration(reg, r.FormValue("password_confirm"))
	if len(errs) > 0 {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, fieldErrors(lang, errs), "")
		return
	}

	store := middleware.GetSession(r)
	if store == nil {
		logAndInternalError(w, "registration without session middleware")
		return
	}

	res, err := h.auth.Register(r.Context(), store, reg)
	if err != nil {
		var authErr *apiclient.AuthenticationError
		if errors.As(err, &authErr) {
			h.logger.InfoContext(r.Context(), "registration rejected", "username", reg.Username, "error", err)
			h.renderRegister(w, r, http.StatusUnprocessableEntity, form, nil, i18n.T(lang, "auth.register_failed"))
			return
		}
		h.logger.ErrorContext(r.Context(), "registration request failed", "username", reg.Username, "error", err)
		h.renderRegister(w, r, http.StatusBadGateway, form, nil, i18n.T(lang, "error.api_unavailable"))
		return
	}

	h.logger.InfoContext(r.Context(), "user registered",
		"user_id", res.User.ID,
		"username", res.User.Username,
		"ip", middleware.ClientIP(r),
	)

	if res.Partial != nil {
		flashAndRedirect(w, r, h.renderer, res.Destination.Path(), i18n.T(lang, "auth.profile_seed_failed"), render.FlashInfo)
		return
	}
	flashSuccess(w, r, h.renderer, res.Destination.Path(), i18n.T(lang, "auth.registered"))
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, form registerForm, errs map[string]string, flash string) {
	data := pageData(r, "auth.register")
	data.Form = form
	data.Errors = errs
	if flash != "" {
		data.Flash = flash
		data.FlashType = render.FlashError
	}
	renderPage(w, r, h.renderer, status, tmplRegister, data)
}

// validateRegistration checks the registration fields and the password
// confirmation together so the form can show every problem at once.
func validateRegistration(reg auth.Registration, confirm string) validation.Errors {
	errs := validation.Errors{}
	if err := reg.Validate(); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			errs = fieldErrs
		} else {
			errs["username"] = err
		}
	}
	if confirm != reg.Password {
		errs["password_confirm"] = validation.NewError("validation_password_mismatch", "passwords do not match")
	}
	return errs
}

// Logout clears the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if store := middleware.GetSession(r); store != nil {
		h.logger.InfoContext(r.Context(), "user logged out", "user_id", middleware.GetUserID(r))
		auth.Logout(store)
	}
	flashSuccess(w, r, h.renderer, redirectLogin, i18n.T(middleware.GetLang(r), "auth.logged_out"))
}

// ForgotPassword renders the page explaining how to reset a password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplForgotPassword, pageData(r, "auth.forgot_password"))
}

// clientInfo is the parsed User-Agent of a login.
type clientInfo struct {
	Browser    string
	OS         string
	DeviceType string
}

// parseUserAgent extracts browser, OS, and device type from a user agent string.
func parseUserAgent(uaString string) clientInfo {
	ua := useragent.Parse(uaString)

	result := clientInfo{
		Browser: ua.Name,
		OS:      ua.OS,
	}

	if result.Browser == "" {
		result.Browser = "Unknown"
	}
	if result.OS == "" {
		result.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		result.DeviceType = "mobile"
	case ua.Tablet:
		result.DeviceType = "tablet"
	case ua.Bot:
		result.DeviceType = "bot"
	default:
		result.DeviceType = "desktop"
	}

	return result
}

// formatDuration formats a lockout duration in the UI language.
func formatDuration(lang string, d time.Duration) string {
	if d < time.Minute {
		return i18n.T(lang, "duration.seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return i18n.T(lang, "duration.minute")
		}
		return i18n.T(lang, "duration.minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return i18n.T(lang, "duration.hour")
	}
	return i18n.T(lang, "duration.hours", hours)
}
