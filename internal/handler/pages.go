// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/postdoc-portal/internal/content"
	"github.com/olegiv/postdoc-portal/internal/middleware"
	"github.com/olegiv/postdoc-portal/internal/render"
)

// Markdown page names.
const (
	contentArticles = "articles"
	contentContact  = "contact"
)

// PagesHandler serves the static informational pages.
type PagesHandler struct {
	renderer *render.Renderer
	content  *content.Library
	logger   *slog.Logger
}

// NewPagesHandler creates a new PagesHandler. lib may be nil, in which case
// the pages show their built-in fallback text.
func NewPagesHandler(renderer *render.Renderer, lib *content.Library, logger *slog.Logger) *PagesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PagesHandler{renderer: renderer, content: lib, logger: logger}
}

// Home renders the landing page.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplHome, pageData(r, "home.title"))
}

// Articles renders the articles page.
func (h *PagesHandler) Articles(w http.ResponseWriter, r *http.Request) {
	h.renderContent(w, r, tmplArticles, "articles.title", contentArticles)
}

// Contact renders the contact page.
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.renderContent(w, r, tmplContact, "contact.title", contentContact)
}

// NotFound renders the 404 page.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, tmplNotFound, pageData(r, "error.not_found"))
}

func (h *PagesHandler) renderContent(w http.ResponseWriter, r *http.Request, tmpl, titleKey, name string) {
	data := pageData(r, titleKey)
	if h.content != nil {
		html, err := h.content.Page(middleware.GetLang(r), name)
		if err != nil {
			h.logger.WarnContext(r.Context(), "content page unavailable", "page", name, "error", err)
		} else {
			data.Data = html
		}
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmpl, data)
}
