// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package directory serves the public researcher directory. Anonymous
// listings and single profiles are cached for a short TTL; searches by
// staff go straight to the API.
package directory

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/postdoc-portal/internal/cache"
	"github.com/olegiv/postdoc-portal/internal/model"
	"github.com/olegiv/postdoc-portal/internal/profile"
)

// MaxQueryLength bounds the search term forwarded to the API.
const MaxQueryLength = 100

// Directory looks up published profiles.
type Directory struct {
	profiles *profile.Collection[model.Profile, *model.Profile]
	listings *cache.TypedCache[[]model.Profile]
	entries  *cache.TypedCache[model.Profile]
	logger   *slog.Logger
}

// New creates a directory reading through c.
func New(profiles *profile.Collection[model.Profile, *model.Profile], c cache.Cacher, ttl time.Duration, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		profiles: profiles,
		listings: cache.NewTypedCache[[]model.Profile](c, "directory", ttl, logger),
		entries:  cache.NewTypedCache[model.Profile](c, "profile", ttl, logger),
		logger:   logger,
	}
}

// NormalizeQuery trims and shortens a search term.
func NormalizeQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if r := []rune(q); len(r) > MaxQueryLength {
		q = string(r[:MaxQueryLength])
	}
	return q
}

// Find lists all profiles, or the ones matching query, without credentials.
func (d *Directory) Find(ctx context.Context, query string) ([]model.Profile, error) {
	query = NormalizeQuery(query)
	key := "all"
	if query != "" {
		key = "q:" + strings.ToLower(query)
	}

	return d.listings.GetOrSet(ctx, key, func(ctx context.Context) ([]model.Profile, error) {
		d.logger.Debug("directory cache miss", "query", query)
		return d.search(ctx, "", query)
	})
}

// Get returns one published profile.
func (d *Directory) Get(ctx context.Context, id int64) (model.Profile, error) {
	return d.entries.GetOrSet(ctx, strconv.FormatInt(id, 10), func(ctx context.Context) (model.Profile, error) {
		return d.profiles.Get(ctx, "", id)
	})
}

// Search runs an uncached lookup with the caller's token.
func (d *Directory) Search(ctx context.Context, token, query string) ([]model.Profile, error) {
	return d.search(ctx, token, NormalizeQuery(query))
}

func (d *Directory) search(ctx context.Context, token, query string) ([]model.Profile, error) {
	var (
		found []model.Profile
		err   error
	)
	if query == "" {
		found, err = d.profiles.List(ctx, token)
	} else {
		found, err = d.profiles.Search(ctx, token, query)
	}
	if err != nil {
		return nil, err
	}
	if found == nil {
		found = []model.Profile{}
	}
	return found, nil
}

// Invalidate drops cached listings and the cached copy of one profile,
// after its owner saved it.
func (d *Directory) Invalidate(ctx context.Context, profileID int64) {
	if err := d.listings.Invalidate(ctx); err != nil {
		d.logger.Warn("directory cache invalidation failed", "error", err)
	}
	if profileID > 0 {
		if err := d.entries.Delete(ctx, strconv.FormatInt(profileID, 10)); err != nil {
			d.logger.Warn("profile cache invalidation failed", "id", profileID, "error", err)
		}
	}
}
