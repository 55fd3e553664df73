// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/postdoc-portal/internal/directory"
	"github.com/olegiv/postdoc-portal/internal/seo"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	directory   *directory.Directory
	siteURL     string
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is derived from
// each request.
func NewSEOHandler(dir *directory.Directory, siteURL string, disallowAll bool, logger *slog.Logger) *SEOHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SEOHandler{
		directory:   dir,
		siteURL:     strings.TrimSuffix(siteURL, "/"),
		disallowAll: disallowAll,
		logger:      logger,
	}
}

// Robots serves /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	}).Build()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(content))
}

// Sitemap serves /sitemap.xml. Directory profiles are left out when the
// listing is unavailable.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if h.directory != nil {
		found, err := h.directory.Find(r.Context(), "")
		if err != nil {
			h.logger.WarnContext(r.Context(), "sitemap without directory profiles", "error", err)
		}
		for _, p := range found {
			ids = append(ids, p.ID)
		}
	}

	out, err := seo.GenerateSitemap(h.baseURL(r), ids)
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
