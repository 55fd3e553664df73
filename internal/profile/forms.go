// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package profile

import (
	"context"
	"errors"
	"maps"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/olegiv/postdoc-portal/internal/civil"
	"github.com/olegiv/postdoc-portal/internal/model"
	"github.com/olegiv/postdoc-portal/internal/session"
)

// ProfileForm is the profile as shown on the form, with display-calendar
// dates and the province selection as a list.
type ProfileForm struct {
	FirstName        string
	LastName         string
	Gender           string
	BirthDate        civil.DisplayDate
	Nationality      string
	Religion         string
	Weight           string
	Height           string
	EnglishLevel     string
	Skills           string
	PhoneNumber      string
	Email            string
	Address          string
	Province         string
	District         string
	Subdistrict      string
	Zipcode          string
	ProfilePicture   string
	PositionType     string
	PositionInterest string
	Provinces        ProvinceList
}

// EducationForm is the education record as shown on the form.
type EducationForm struct {
	Level           string
	InstitutionName string
	Faculty         string
	FieldOfStudy    string
	GPA             string
	Status          string
}

// TrainingForm is the training record as shown on the form.
type TrainingForm struct {
	Topic        string
	Details      string
	Trainer      string
	TrainingDate civil.DisplayDate
}

// WorkHistoryForm is the work-history record as shown on the form.
type WorkHistoryForm struct {
	Position       string
	CompanyName    string
	JobDescription string
	StartDate      civil.DisplayDate
	EndDate        civil.DisplayDate
	IsCurrent      bool
}

// dateErrors collects date conversion failures keyed by JSON field name.
type dateErrors validation.Errors

func (e dateErrors) toStorage(field string, d civil.DisplayDate) string {
	s, err := civil.ToStorage(d)
	if err != nil {
		e[field] = validation.NewError("validation_date_invalid", "must be a valid date")
		return ""
	}
	return s
}

func (e dateErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return validation.Errors(e)
}

// combine merges date conversion errors into the submission errors so
// the form shows both at once.
func combine(dateErr, submitErr error) error {
	if dateErr == nil {
		return submitErr
	}
	if submitErr == nil {
		return dateErr
	}
	var submitted validation.Errors
	if !errors.As(submitErr, &submitted) {
		return submitErr
	}
	merged := validation.Errors{}
	maps.Copy(merged, submitted)
	var dates validation.Errors
	if errors.As(dateErr, &dates) {
		maps.Copy(merged, dates)
	}
	return merged
}

// storedDate converts a stored date for display. A date the API holds in a
// form the portal cannot read is shown empty, so the user can enter it again.
func storedDate(s string) civil.DisplayDate {
	d, err := civil.ToDisplay(s)
	if err != nil {
		return civil.DisplayDate{}
	}
	return d
}

// ProfileFormFrom converts a stored profile into its form.
func ProfileFormFrom(p model.Profile) ProfileForm {
	return ProfileForm{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Gender:           p.Gender,
		BirthDate:        storedDate(p.BirthDate),
		Nationality:      p.Nationality,
		Religion:         p.Religion,
		Weight:           p.Weight,
		Height:           p.Height,
		EnglishLevel:     p.EnglishLevel,
		Skills:           p.Skills,
		PhoneNumber:      p.PhoneNumber,
		Email:            p.Email,
		Address:          p.Address,
		Province:         p.Province,
		District:         p.District,
		Subdistrict:      p.Subdistrict,
		Zipcode:          p.Zipcode,
		ProfilePicture:   p.ProfilePicture,
		PositionType:     p.PositionType,
		PositionInterest: p.PositionInterest,
		Provinces:        ParseProvinceList(p.PreferredProvinces),
	}
}

// Record converts the form into a storage profile. Date failures are
// returned as validation.Errors.
func (f ProfileForm) Record() (model.Profile, error) {
	errs := dateErrors{}
	p := model.Profile{
		FirstName:          cleanText(f.FirstName),
		LastName:           cleanText(f.LastName),
		Gender:             f.Gender,
		BirthDate:          errs.toStorage("birth_date", f.BirthDate),
		Nationality:        cleanText(f.Nationality),
		Religion:           cleanText(f.Religion),
		Weight:             f.Weight,
		Height:             f.Height,
		EnglishLevel:       f.EnglishLevel,
		Skills:             cleanText(f.Skills),
		PhoneNumber:        f.PhoneNumber,
		Email:              f.Email,
		Address:            cleanText(f.Address),
		Province:           f.Province,
		District:           f.District,
		Subdistrict:        f.Subdistrict,
		Zipcode:            f.Zipcode,
		ProfilePicture:     f.ProfilePicture,
		PositionType:       f.PositionType,
		PositionInterest:   cleanText(f.PositionInterest),
		PreferredProvinces: f.Provinces.String(),
	}
	return p, errs.err()
}

// EducationFormFrom converts a stored education record into its form.
func EducationFormFrom(e model.Education) EducationForm {
	return EducationForm{
		Level:           e.Level,
		InstitutionName: e.InstitutionName,
		Faculty:         e.Faculty,
		FieldOfStudy:    e.FieldOfStudy,
		GPA:             e.GPA,
		Status:          e.Status,
	}
}

// Record converts the form into a storage education record.
func (f EducationForm) Record() (model.Education, error) {
	return model.Education{
		Level:           f.Level,
		InstitutionName: cleanText(f.InstitutionName),
		Faculty:         cleanText(f.Faculty),
		FieldOfStudy:    cleanText(f.FieldOfStudy),
		GPA:             f.GPA,
		Status:          f.Status,
	}, nil
}

// TrainingFormFrom converts a stored training record into its form.
func TrainingFormFrom(t model.Training) TrainingForm {
	return TrainingForm{
		Topic:        t.Topic,
		Details:      t.Details,
		Trainer:      t.Trainer,
		TrainingDate: storedDate(t.TrainingDate),
	}
}

// Record converts the form into a storage training record.
func (f TrainingForm) Record() (model.Training, error) {
	errs := dateErrors{}
	t := model.Training{
		Topic:        cleanText(f.Topic),
		Details:      cleanText(f.Details),
		Trainer:      cleanText(f.Trainer),
		TrainingDate: errs.toStorage("training_date", f.TrainingDate),
	}
	return t, errs.err()
}

// WorkHistoryFormFrom converts a stored work-history record into its form.
func WorkHistoryFormFrom(w model.WorkExperience) WorkHistoryForm {
	var end civil.DisplayDate
	if w.EndDate != nil && !w.IsCurrent {
		end = storedDate(*w.EndDate)
	}
	return WorkHistoryForm{
		Position:       w.Position,
		CompanyName:    w.CompanyName,
		JobDescription: w.JobDescription,
		StartDate:      storedDate(w.StartDate),
		EndDate:        end,
		IsCurrent:      w.IsCurrent,
	}
}

// Record converts the form into a storage work-history record. A current
// position has no end date.
func (f WorkHistoryForm) Record() (model.WorkExperience, error) {
	errs := dateErrors{}
	w := model.WorkExperience{
		Position:       cleanText(f.Position),
		CompanyName:    cleanText(f.CompanyName),
		JobDescription: cleanText(f.JobDescription),
		StartDate:      errs.toStorage("start_date", f.StartDate),
		IsCurrent:      f.IsCurrent,
	}
	if !f.IsCurrent {
		if end := errs.toStorage("end_date", f.EndDate); end != "" {
			w.EndDate = &end
		}
	}
	return w, errs.err()
}

// LoadProfileForm returns the user's profile form, or one prefilled from
// the session user when no profile exists yet.
func (s *Service) LoadProfileForm(ctx context.Context, store *session.Store) (ProfileForm, error) {
	found, err := s.Profiles.FetchMine(ctx, store)
	if err != nil {
		return ProfileForm{}, err
	}
	if len(found) == 0 {
		f := ProfileForm{}
		if u := store.User(); u != nil {
			f.FirstName, f.LastName, f.Email = u.FirstName, u.LastName, u.Email
		}
		return f, nil
	}
	return ProfileFormFrom(found[0]), nil
}

// SaveProfileForm validates and stores the profile form.
func (s *Service) SaveProfileForm(ctx context.Context, store *session.Store, f ProfileForm) (SaveResult[model.Profile], error) {
	rec, dateErr := f.Record()
	if err := combine(dateErr, rec.ValidateSubmission()); err != nil {
		return SaveResult[model.Profile]{}, err
	}
	return s.Profiles.Save(ctx, store, rec)
}

// LoadEducationForm returns the user's education form.
func (s *Service) LoadEducationForm(ctx context.Context, store *session.Store) (EducationForm, error) {
	found, err := s.Educations.FetchMine(ctx, store)
	if err != nil || len(found) == 0 {
		return EducationForm{}, err
	}
	return EducationFormFrom(found[0]), nil
}

// SaveEducationForm validates and stores the education form.
func (s *Service) SaveEducationForm(ctx context.Context, store *session.Store, f EducationForm) (SaveResult[model.Education], error) {
	rec, dateErr := f.Record()
	if err := combine(dateErr, rec.ValidateSubmission()); err != nil {
		return SaveResult[model.Education]{}, err
	}
	return s.Educations.Save(ctx, store, rec)
}

// LoadTrainingForm returns the form of the user's first training record.
func (s *Service) LoadTrainingForm(ctx context.Context, store *session.Store) (TrainingForm, error) {
	found, err := s.Trainings.FetchMine(ctx, store)
	if err != nil || len(found) == 0 {
		return TrainingForm{}, err
	}
	return TrainingFormFrom(found[0]), nil
}

// SaveTrainingForm validates and stores the training form.
func (s *Service) SaveTrainingForm(ctx context.Context, store *session.Store, f TrainingForm) (SaveResult[model.Training], error) {
	rec, dateErr := f.Record()
	if err := combine(dateErr, rec.ValidateSubmission()); err != nil {
		return SaveResult[model.Training]{}, err
	}
	return s.Trainings.Save(ctx, store, rec)
}

// LoadWorkHistoryForm returns the form of the user's first work-history record.
func (s *Service) LoadWorkHistoryForm(ctx context.Context, store *session.Store) (WorkHistoryForm, error) {
	found, err := s.WorkHistory.FetchMine(ctx, store)
	if err != nil || len(found) == 0 {
		return WorkHistoryForm{}, err
	}
	return WorkHistoryFormFrom(found[0]), nil
}

// SaveWorkHistoryForm validates and stores the work-history form.
func (s *Service) SaveWorkHistoryForm(ctx context.Context, store *session.Store, f WorkHistoryForm) (SaveResult[model.WorkExperience], error) {
	rec, dateErr := f.Record()
	if err := combine(dateErr, rec.ValidateSubmission()); err != nil {
		return SaveResult[model.WorkExperience]{}, err
	}
	return s.WorkHistory.Save(ctx, store, rec)
}
