// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package profile

import (
	"context"
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/model"
	"github.com/olegiv/postdoc-portal/internal/session"
)

// Service groups the four record collections.
type Service struct {
	Profiles    *Collection[model.Profile, *model.Profile]
	Educations  *Collection[model.Education, *model.Education]
	Trainings   *Collection[model.Training, *model.Training]
	WorkHistory *Collection[model.WorkExperience, *model.WorkExperience]

	logger *slog.Logger
}

// NewService creates the collection clients on top of api.
func NewService(api *apiclient.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Profiles:    NewCollection[model.Profile](CollectionProfile, api, logger),
		Educations:  NewCollection[model.Education](CollectionEducation, api, logger),
		Trainings:   NewCollection[model.Training](CollectionTraining, api, logger),
		WorkHistory: NewCollection[model.WorkExperience](CollectionWorkHistory, api, logger),
		logger:      logger,
	}
}

// SeedProfile stores the initial profile of a newly registered user.
func (s *Service) SeedProfile(ctx context.Context, store *session.Store, p model.Profile) error {
	_, err := s.Profiles.Save(ctx, store, p)
	return err
}

// Summary tells which records the user has filled in.
type Summary struct {
	Profile     bool
	Education   bool
	Training    bool
	WorkHistory bool
}

// Complete reports whether every record exists.
func (s Summary) Complete() bool {
	return s.Profile && s.Education && s.Training && s.WorkHistory
}

// Summarize fetches the user's records of every kind.
func (s *Service) Summarize(ctx context.Context, store *session.Store) (Summary, error) {
	var sum Summary

	profiles, err := s.Profiles.FetchMine(ctx, store)
	if err != nil {
		return sum, err
	}
	educations, err := s.Educations.FetchMine(ctx, store)
	if err != nil {
		return sum, err
	}
	trainings, err := s.Trainings.FetchMine(ctx, store)
	if err != nil {
		return sum, err
	}
	work, err := s.WorkHistory.FetchMine(ctx, store)
	if err != nil {
		return sum, err
	}

	sum.Profile = len(profiles) > 0
	sum.Education = len(educations) > 0
	sum.Training = len(trainings) > 0
	sum.WorkHistory = len(work) > 0
	return sum, nil
}

var plainText = bluemonday.StrictPolicy()

// cleanText strips markup from free text typed into a form.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}
