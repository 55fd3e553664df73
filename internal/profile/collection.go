// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package profile keeps the user's profile, education, training and work
// history records in sync with the API.
//
// Every save first fetches the caller's existing records and then either
// updates the first one by id or creates a new one. The fetch and the write
// are separate calls, so two saves racing for the same user can both
// create a record; the API offers no conditional write to prevent it.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/model"
	"github.com/olegiv/postdoc-portal/internal/session"
)

// Collection names on the API.
const (
	CollectionProfile     = "postdoc"
	CollectionEducation   = "educations"
	CollectionTraining    = "trainings"
	CollectionWorkHistory = "work-experiences"
)

// Op tells whether Save created or updated a record.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
)

// SaveResult is the outcome of Save.
type SaveResult[T any] struct {
	Op     Op
	Record T
}

// recordPtr constrains PT to a pointer to T implementing model.Record.
type recordPtr[T any] interface {
	*T
	model.Record
}

// Collection is one record kind on the API.
type Collection[T any, PT recordPtr[T]] struct {
	name   string
	api    *apiclient.Client
	logger *slog.Logger
}

// NewCollection creates a collection client for name.
func NewCollection[T any, PT recordPtr[T]](name string, api *apiclient.Client, logger *slog.Logger) *Collection[T, PT] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T, PT]{name: name, api: api, logger: logger}
}

// Name returns the collection name.
func (c *Collection[T, PT]) Name() string { return c.name }

func (c *Collection[T, PT]) path(id int64) string {
	if id == 0 {
		return "/" + c.name + "/"
	}
	return "/" + c.name + "/" + strconv.FormatInt(id, 10) + "/"
}

func credentials(store *session.Store) (string, *model.User, error) {
	token := store.AccessToken()
	user := store.User()
	if token == "" || user == nil {
		return "", nil, apiclient.ErrNoSession
	}
	return token, user, nil
}

// FetchMine returns the records owned by the session user. The result is
// empty, not nil, when there are none.
func (c *Collection[T, PT]) FetchMine(ctx context.Context, store *session.Store) ([]T, error) {
	token, user, err := credentials(store)
	if err != nil {
		return nil, err
	}

	all, err := c.List(ctx, token)
	if err != nil {
		return nil, err
	}

	mine := make([]T, 0, 1)
	for i := range all {
		rec := PT(&all[i])
		if rec.OwnerID() != user.ID {
			continue
		}
		if err := rec.Validate(); err != nil {
			return nil, &apiclient.MalformedResponseError{Path: c.path(0), Err: err}
		}
		mine = append(mine, all[i])
	}
	return mine, nil
}

// Save stamps the session user as owner and writes rec. The caller's
// existing records are always fetched first; when one exists it is updated
// by its id, otherwise a new record is created.
func (c *Collection[T, PT]) Save(ctx context.Context, store *session.Store, rec T) (SaveResult[T], error) {
	var zero SaveResult[T]

	token, user, err := credentials(store)
	if err != nil {
		return zero, err
	}
	PT(&rec).SetOwnerID(user.ID)

	existing, err := c.FetchMine(ctx, store)
	if err != nil {
		return zero, fmt.Errorf("checking existing %s: %w", c.name, err)
	}

	var out T
	if len(existing) > 0 {
		id := PT(&existing[0]).RecordID()
		PT(&rec).SetRecordID(id)
		if err := c.api.Put(ctx, c.path(id), token, &rec, PT(&out)); err != nil {
			return zero, fmt.Errorf("updating %s %d: %w", c.name, id, err)
		}
		c.logger.Info("record updated", "collection", c.name, "id", id, "user_id", user.ID)
		return SaveResult[T]{Op: OpUpdated, Record: out}, nil
	}

	PT(&rec).SetRecordID(0)
	if err := c.api.Post(ctx, c.path(0), token, &rec, PT(&out)); err != nil {
		return zero, fmt.Errorf("creating %s: %w", c.name, err)
	}
	c.logger.Info("record created", "collection", c.name, "id", PT(&out).RecordID(), "user_id", user.ID)
	return SaveResult[T]{Op: OpCreated, Record: out}, nil
}

// List returns every record of the collection. token may be empty for
// public collections.
func (c *Collection[T, PT]) List(ctx context.Context, token string) ([]T, error) {
	var all []T
	if err := c.api.Get(ctx, c.path(0), token, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Get returns one record by id.
func (c *Collection[T, PT]) Get(ctx context.Context, token string, id int64) (T, error) {
	var out T
	err := c.api.Get(ctx, c.path(id), token, PT(&out))
	return out, err
}

// Search runs the collection's search endpoint.
func (c *Collection[T, PT]) Search(ctx context.Context, token, query string) ([]T, error) {
	var found []T
	path := "/" + c.name + "/search/?q=" + url.QueryEscape(query)
	if err := c.api.Get(ctx, path, token, &found); err != nil {
		return nil, err
	}
	return found, nil
}
