// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/postdoc-portal/internal/civil"
	"github.com/olegiv/postdoc-portal/internal/directory"
	"github.com/olegiv/postdoc-portal/internal/i18n"
	"github.com/olegiv/postdoc-portal/internal/middleware"
	"github.com/olegiv/postdoc-portal/internal/profile"
	"github.com/olegiv/postdoc-portal/internal/render"
	"github.com/olegiv/postdoc-portal/internal/session"
)

// UserHandler serves the dashboard and the four record forms.
type UserHandler struct {
	profiles  *profile.Service
	directory *directory.Directory
	renderer  *render.Renderer
	logger    *slog.Logger
	now       func() time.Time
}

// NewUserHandler creates a new UserHandler. dir may be nil when the
// directory is not cached.
func NewUserHandler(profiles *profile.Service, dir *directory.Directory, renderer *render.Renderer, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		profiles:  profiles,
		directory: dir,
		renderer:  renderer,
		logger:    logger,
		now:       time.Now,
	}
}

// formOptions are the choices rendered by the form templates.
type formOptions struct {
	Years             []int
	Genders           []string
	PositionTypes     []string
	EnglishLevels     []string
	EducationLevels   []string
	EducationStatuses []string
	Provinces         []string
}

func (h *UserHandler) options() formOptions {
	return formOptions{
		Years:             civil.Years(h.now(), formYears),
		Genders:           profile.Genders,
		PositionTypes:     profile.PositionTypes,
		EnglishLevels:     profile.EnglishLevels,
		EducationLevels:   profile.EducationLevels,
		EducationStatuses: profile.EducationStatuses,
		Provinces:         profile.Provinces,
	}
}

// Dashboard shows which records the user has filled in.
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetSession(r)
	summary, err := h.profiles.Summarize(r.Context(), store)
	if err != nil {
		handleAPIError(w, r, h.renderer, RouteRoot, err)
		return
	}

	data := pageData(r, "dashboard.title")
	data.Data = summary
	renderPage(w, r, h.renderer, http.StatusOK, tmplDashboard, data)
}

// RegisterProfile sends users arriving from the old post-registration
// step to the profile form.
func (h *UserHandler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteUser+RouteProfile, http.StatusSeeOther)
}

// formPage describes one record form.
type formPage struct {
	template string
	titleKey string
	path     string
}

var (
	profilePage     = formPage{tmplProfile, "profile.title", RouteUser + RouteProfile}
	educationPage   = formPage{tmplEducation, "education.title", RouteUser + RouteEducation}
	certificatePage = formPage{tmplCertificate, "certificate.title", RouteUser + RouteCertificate}
	workHistoryPage = formPage{tmplWorkHistory, "work_history.title", RouteUser + RouteWorkHistory}
)

func (h *UserHandler) renderForm(w http.ResponseWriter, r *http.Request, page formPage, status int, form any, errs map[string]string) {
	data := pageData(r, page.titleKey)
	data.Form = form
	data.Errors = errs
	data.Data = h.options()
	renderPage(w, r, h.renderer, status, page.template, data)
}

// showForm loads a form from the API and renders it.
func showForm[F any](h *UserHandler, w http.ResponseWriter, r *http.Request, page formPage,
	load func(context.Context, *session.Store) (F, error)) {
	form, err := load(r.Context(), middleware.GetSession(r))
	if err != nil {
		handleAPIError(w, r, h.renderer, redirectUser, err)
		return
	}
	h.renderForm(w, r, page, http.StatusOK, form, nil)
}

// saveForm stores a submitted form. Validation failures render the form
// again; success redirects back to it with a flash message.
func saveForm[F any, T any](h *UserHandler, w http.ResponseWriter, r *http.Request, page formPage, form F,
	save func(context.Context, *session.Store, F) (profile.SaveResult[T], error)) (profile.SaveResult[T], bool) {
	lang := middleware.GetLang(r)

	res, err := save(r.Context(), middleware.GetSession(r), form)
	if err != nil {
		if errs := fieldErrors(lang, err); errs != nil {
			h.renderForm(w, r, page, http.StatusUnprocessableEntity, form, errs)
			return res, false
		}
		handleAPIError(w, r, h.renderer, page.path, err)
		return res, false
	}

	h.logger.InfoContext(r.Context(), "record saved",
		"form", page.template,
		"op", string(res.Op),
		"user_id", middleware.GetUserID(r),
	)

	key := "form.updated"
	if res.Op == profile.OpCreated {
		key = "form.created"
	}
	flashSuccess(w, r, h.renderer, page.path, i18n.T(lang, key))
	return res, true
}

// ProfileForm renders the profile form.
func (h *UserHandler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	showForm(h, w, r, profilePage, h.profiles.LoadProfileForm)
}

// SaveProfile handles the profile form submission.
func (h *UserHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, profilePage.path) {
		return
	}
	form := parseProfileForm(r)
	if formValue(r, fieldRemoveProvince) != "" {
		// removing a province only edits the form; the user saves afterwards
		h.renderForm(w, r, profilePage, http.StatusOK, form, nil)
		return
	}
	res, ok := saveForm(h, w, r, profilePage, form, h.profiles.SaveProfileForm)
	if ok && h.directory != nil {
		h.directory.Invalidate(r.Context(), res.Record.ID)
	}
}

// EducationForm renders the education form.
func (h *UserHandler) EducationForm(w http.ResponseWriter, r *http.Request) {
	showForm(h, w, r, educationPage, h.profiles.LoadEducationForm)
}

// SaveEducation handles the education form submission.
func (h *UserHandler) SaveEducation(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, educationPage.path) {
		return
	}
	_, ok := saveForm(h, w, r, educationPage, parseEducationForm(r), h.profiles.SaveEducationForm)
	if ok && h.directory != nil {
		// listings embed the education record
		h.directory.Invalidate(r.Context(), 0)
	}
}

// CertificateForm renders the training form.
func (h *UserHandler) CertificateForm(w http.ResponseWriter, r *http.Request) {
	showForm(h, w, r, certificatePage, h.profiles.LoadTrainingForm)
}

// SaveCertificate handles the training form submission.
func (h *UserHandler) SaveCertificate(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, certificatePage.path) {
		return
	}
	saveForm(h, w, r, certificatePage, parseTrainingForm(r), h.profiles.SaveTrainingForm)
}

// WorkHistoryForm renders the work-history form.
func (h *UserHandler) WorkHistoryForm(w http.ResponseWriter, r *http.Request) {
	showForm(h, w, r, workHistoryPage, h.profiles.LoadWorkHistoryForm)
}

// SaveWorkHistory handles the work-history form submission.
func (h *UserHandler) SaveWorkHistory(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, workHistoryPage.path) {
		return
	}
	saveForm(h, w, r, workHistoryPage, parseWorkHistoryForm(r), h.profiles.SaveWorkHistoryForm)
}
