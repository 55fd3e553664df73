// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that tags records with the request
// they were logged for. Records logged with a request context carry the chi
// request ID and the request path; records at WARN and above also get a
// category so they can be filtered in the log pipeline.
package logging

import (
	"context"
	"log/slog"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/postdoc-portal/internal/middleware"
)

// Attribute keys added by RequestHandler.
const (
	KeyRequestID = "request_id"
	KeyPath      = "path"
	KeyCategory  = "category"
)

// Log categories.
const (
	CategoryAuth      = "auth"
	CategoryProfile   = "profile"
	CategoryDirectory = "directory"
	CategoryCache     = "cache"
	CategoryConfig    = "config"
	CategorySystem    = "system"
)

// RequestHandler is a slog.Handler that wraps another handler and adds
// request-scoped attributes taken from the record's context.
type RequestHandler struct {
	inner slog.Handler
	level slog.Level // minimum level that gets a category (default: WARN)
}

// NewRequestHandler wraps inner.
func NewRequestHandler(inner slog.Handler) *RequestHandler {
	return &RequestHandler{inner: inner, level: slog.LevelWarn}
}

// NewRequestHandlerWithLevel wraps inner with a custom category threshold.
func NewRequestHandlerWithLevel(inner slog.Handler, level slog.Level) *RequestHandler {
	return &RequestHandler{inner: inner, level: level}
}

// Enabled implements slog.Handler.
func (h *RequestHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RequestHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx == nil {
		return h.inner.Handle(ctx, r)
	}

	present := recordKeys(r)
	var extra []slog.Attr
	if id := chimw.GetReqID(ctx); id != "" && !present[KeyRequestID] {
		extra = append(extra, slog.String(KeyRequestID, id))
	}
	if path := middleware.GetRequestPath(ctx); path != "" && !present[KeyPath] {
		extra = append(extra, slog.String(KeyPath, path))
	}
	if r.Level >= h.level && !present[KeyCategory] {
		extra = append(extra, slog.String(KeyCategory, inferCategory(r.Message)))
	}

	if len(extra) > 0 {
		r = r.Clone()
		r.AddAttrs(extra...)
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *RequestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RequestHandler{inner: h.inner.WithAttrs(attrs), level: h.level}
}

// WithGroup implements slog.Handler.
func (h *RequestHandler) WithGroup(name string) slog.Handler {
	return &RequestHandler{inner: h.inner.WithGroup(name), level: h.level}
}

func recordKeys(r slog.Record) map[string]bool {
	keys := make(map[string]bool, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		keys[a.Key] = true
		return true
	})
	return keys
}

// inferCategory guesses a category from the log message.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "account") || strings.Contains(msg, "registration") ||
		strings.Contains(msg, "guard"):
		return CategoryAuth
	case strings.Contains(msg, "directory"):
		return CategoryDirectory
	case strings.Contains(msg, "profile") || strings.Contains(msg, "record"):
		return CategoryProfile
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return CategoryCache
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return CategoryConfig
	default:
		return CategorySystem
	}
}
