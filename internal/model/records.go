// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// MaxPreferredProvinces is the maximum number of preferred provinces on a profile.
const MaxPreferredProvinces = 3

// Record is implemented by every user-owned record kind.
type Record interface {
	RecordID() int64
	SetRecordID(id int64)
	OwnerID() int64
	SetOwnerID(id int64)
	Validate() error
}

// Owned holds the id and owner shared by every record kind.
type Owned struct {
	ID     int64 `json:"id,omitempty"`
	UserID int64 `json:"user_id"`
}

// RecordID returns the record's own id (0 when not yet created).
func (o *Owned) RecordID() int64 { return o.ID }

// SetRecordID sets the record id.
func (o *Owned) SetRecordID(id int64) { o.ID = id }

// OwnerID returns the id of the user owning the record.
func (o *Owned) OwnerID() int64 { return o.UserID }

// SetOwnerID sets the owning user id.
func (o *Owned) SetOwnerID(id int64) { o.UserID = id }

// Validate checks what the portal relies on in a record received from the
// API: its own id (updates go to /{collection}/{id}/) and its owner. Field
// rules belong to ValidateSubmission; a stored record breaking them must
// still load so the user can correct it.
func (o *Owned) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ID, validation.Required),
		validation.Field(&o.UserID, validation.Required),
	)
}

// Profile is the primary researcher profile (the API calls it "postdoc").
type Profile struct {
	Owned
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Gender             string `json:"gender,omitempty"`
	BirthDate          string `json:"birth_date,omitempty"`
	Nationality        string `json:"nationality,omitempty"`
	Religion           string `json:"religion,omitempty"`
	Weight             string `json:"weight,omitempty"`
	Height             string `json:"height,omitempty"`
	EnglishLevel       string `json:"english_level,omitempty"`
	Skills             string `json:"skills,omitempty"`
	PhoneNumber        string `json:"phone_number"`
	Email              string `json:"email"`
	Address            string `json:"address,omitempty"`
	Province           string `json:"province,omitempty"`
	District           string `json:"district,omitempty"`
	Subdistrict        string `json:"subdistrict,omitempty"`
	Zipcode            string `json:"zipcode,omitempty"`
	ProfilePicture     string `json:"profile_picture,omitempty"`
	PositionType       string `json:"position_type,omitempty"`
	PositionInterest   string `json:"position_interest,omitempty"`
	PreferredProvinces string `json:"preferred_provinces,omitempty"`

	// Education is embedded by the listing endpoints only.
	Education *Education `json:"education,omitempty"`
}

// FullName joins first and last name.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Institution returns the institution of the embedded education, or "-".
func (p *Profile) Institution() string {
	if p.Education != nil && p.Education.InstitutionName != "" {
		return p.Education.InstitutionName
	}
	return "-"
}

// Major returns the field of study, the position of interest, or "-".
func (p *Profile) Major() string {
	switch {
	case p.Education != nil && p.Education.FieldOfStudy != "":
		return p.Education.FieldOfStudy
	case p.PositionInterest != "":
		return p.PositionInterest
	default:
		return "-"
	}
}

// SkillList splits the comma-separated skills.
func (p *Profile) SkillList() []string {
	var skills []string
	for _, s := range strings.Split(p.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

var phonePattern = regexp.MustCompile(`^[0-9]{9,10}$`)

// ValidateSubmission checks a profile submitted from the profile form.
func (p *Profile) ValidateSubmission() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 150)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 150)),
		validation.Field(&p.BirthDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&p.PhoneNumber, validation.Required, validation.Match(phonePattern)),
		validation.Field(&p.Email, validation.Required, is.EmailFormat),
		validation.Field(&p.PreferredProvinces, validation.By(validProvinceList)),
	)
}

func validProvinceList(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	seen := make(map[string]bool)
	count := 0
	for _, p := range strings.Split(s, ",") {
		if p == "" {
			continue
		}
		if seen[p] {
			return validation.NewError("validation_province_duplicate", "must not contain duplicate provinces")
		}
		seen[p] = true
		count++
	}
	if count > MaxPreferredProvinces {
		return validation.NewError("validation_province_max", "must contain at most 3 provinces")
	}
	return nil
}

// Education is the education record.
type Education struct {
	Owned
	Level           string `json:"level"`
	InstitutionName string `json:"institution_name"`
	Faculty         string `json:"faculty,omitempty"`
	FieldOfStudy    string `json:"field_of_study,omitempty"`
	GPA             string `json:"gpa,omitempty"`
	Status          string `json:"status"`
}

// ValidateSubmission checks an education record submitted from the form.
func (e *Education) ValidateSubmission() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Level, validation.Required),
		validation.Field(&e.InstitutionName, validation.Required, validation.Length(1, 255)),
		validation.Field(&e.Status, validation.Required),
		validation.Field(&e.GPA, is.Float),
	)
}

// Training is a training/certificate record.
type Training struct {
	Owned
	Topic        string `json:"topic"`
	Details      string `json:"details,omitempty"`
	Trainer      string `json:"trainer,omitempty"`
	TrainingDate string `json:"training_date,omitempty"`
}

// ValidateSubmission checks a training record submitted from the form.
func (t *Training) ValidateSubmission() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Topic, validation.Required),
		validation.Field(&t.Details, validation.Required),
		validation.Field(&t.Trainer, validation.Required),
		validation.Field(&t.TrainingDate, validation.Required, validation.Date("2006-01-02")),
	)
}

// WorkExperience is a work-history record. EndDate is nil for an ongoing
// position and is then left out of the JSON payload.
type WorkExperience struct {
	Owned
	Position       string  `json:"position"`
	CompanyName    string  `json:"company_name"`
	JobDescription string  `json:"job_description,omitempty"`
	StartDate      string  `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`
	IsCurrent      bool    `json:"is_current"`
}

// ValidateSubmission checks a work-history record submitted from the form.
func (w *WorkExperience) ValidateSubmission() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Position, validation.Required),
		validation.Field(&w.CompanyName, validation.Required),
		validation.Field(&w.StartDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&w.EndDate,
			validation.When(!w.IsCurrent, validation.Required),
			validation.Nil.When(w.IsCurrent),
			validation.Date("2006-01-02"),
		),
	)
}
