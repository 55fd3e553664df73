// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/directory"
	"github.com/olegiv/postdoc-portal/internal/middleware"
	"github.com/olegiv/postdoc-portal/internal/model"
	"github.com/olegiv/postdoc-portal/internal/render"
)

// DirectoryHandler serves the public researcher directory and the staff
// listing.
type DirectoryHandler struct {
	directory *directory.Directory
	renderer  *render.Renderer
	logger    *slog.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(dir *directory.Directory, renderer *render.Renderer, logger *slog.Logger) *DirectoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryHandler{directory: dir, renderer: renderer, logger: logger}
}

// listing is the data of the directory and staff listing templates.
type listing struct {
	Query    string
	Profiles []model.Profile
	Count    int
}

// Find lists public profiles, optionally filtered by ?q=.
func (h *DirectoryHandler) Find(w http.ResponseWriter, r *http.Request) {
	query := directory.NormalizeQuery(r.URL.Query().Get("q"))

	found, err := h.directory.Find(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "directory lookup failed", "query", query, "error", err)
		h.renderUnavailable(w, r)
		return
	}

	data := pageData(r, "directory.title")
	data.Data = listing{Query: query, Profiles: found, Count: len(found)}
	renderPage(w, r, h.renderer, http.StatusOK, tmplDirectory, data)
}

// Show renders one public profile.
func (h *DirectoryHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderNotFound(w, r)
		return
	}

	p, err := h.directory.Get(r.Context(), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			h.renderNotFound(w, r)
			return
		}
		h.logger.ErrorContext(r.Context(), "directory entry lookup failed", "id", id, "error", err)
		h.renderUnavailable(w, r)
		return
	}

	data := pageData(r, "directory.profile")
	data.Title = p.FullName()
	data.Data = &p
	renderPage(w, r, h.renderer, http.StatusOK, tmplDirectoryEntry, data)
}

// Admin lists profiles for staff with their own token. Results are never
// cached.
func (h *DirectoryHandler) Admin(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetSession(r)
	query := directory.NormalizeQuery(r.URL.Query().Get("q"))

	found, err := h.directory.Search(r.Context(), store.AccessToken(), query)
	if err != nil {
		handleAPIError(w, r, h.renderer, RouteRoot, err)
		return
	}

	data := pageData(r, "admin.title")
	data.Data = listing{Query: query, Profiles: found, Count: len(found)}
	renderPage(w, r, h.renderer, http.StatusOK, tmplAdminPostdoc, data)
}

func (h *DirectoryHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, tmplNotFound, pageData(r, "error.not_found"))
}

func (h *DirectoryHandler) renderUnavailable(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusBadGateway, tmplError, pageData(r, "error.api_unavailable"))
}
