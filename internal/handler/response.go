// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the portal.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/auth"
	"github.com/olegiv/postdoc-portal/internal/i18n"
	"github.com/olegiv/postdoc-portal/internal/middleware"
	"github.com/olegiv/postdoc-portal/internal/render"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, i18n.T(middleware.GetLang(r), "error.invalid_form"))
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// pageData builds the template data shared by every page.
func pageData(r *http.Request, titleKey string) render.TemplateData {
	lang := middleware.GetLang(r)
	data := render.TemplateData{
		Title: i18n.T(lang, titleKey),
		Lang:  lang,
		Path:  r.URL.Path,

		RegisterOpen: middleware.AnonymousAccess(r, RouteRegister),
	}
	if store := middleware.GetSession(r); store != nil {
		data.User = store.User()
		data.IsAdmin = auth.CheckAdminAccess(store)
	}
	return data
}

// renderPage renders a template and reports failures as a 500.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.Render(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render template", "template", name, "error", err)
	}
}

// handleAPIError reacts to a failed API call. A rejected or missing token
// ends the session and sends the user to the login page; anything else is
// logged and reported with a generic message on fallback.
func handleAPIError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, fallback string, err error) {
	lang := middleware.GetLang(r)

	if apiclient.IsUnauthorized(err) || errors.Is(err, apiclient.ErrNoSession) {
		if store := middleware.GetSession(r); store != nil {
			auth.Logout(store)
		}
		slog.Info("session rejected by API",
			"path", r.URL.Path,
			"user_id", middleware.GetUserID(r),
			"error", err,
		)
		flashError(w, r, renderer, redirectLogin, i18n.T(lang, "auth.session_expired"))
		return
	}

	slog.Error("API request failed",
		"path", r.URL.Path,
		"user_id", middleware.GetUserID(r),
		"error", err,
	)
	flashError(w, r, renderer, fallback, i18n.T(lang, "error.api_unavailable"))
}

// fieldErrors translates ozzo validation errors into per-field messages.
// It returns nil when err is not a validation failure of the submitted
// form; a rejected API payload is never reported against form fields.
func fieldErrors(lang string, err error) map[string]string {
	var malformed *apiclient.MalformedResponseError
	if errors.As(err, &malformed) {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}

	out := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		out[field] = validationMessage(lang, fieldErr)
	}
	return out
}

func validationMessage(lang string, err error) string {
	var verr validation.Error
	if errors.As(err, &verr) {
		key := "validation." + strings.TrimPrefix(verr.Code(), "validation_")
		if msg := i18n.T(lang, key); msg != key {
			return msg
		}
	}
	return err.Error()
}
