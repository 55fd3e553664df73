// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/olegiv/postdoc-portal/internal/civil"
	"github.com/olegiv/postdoc-portal/internal/profile"
)

// Form field names shared with the templates. Dates are submitted as three
// selects named <field>_day, <field>_month and <field>_year.
const (
	fieldPreferredProvinces = "preferred_provinces"
	fieldRemoveProvince     = "remove_province"
)

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

// formDate reads a display-calendar date from its three selects.
func formDate(r *http.Request, field string) civil.DisplayDate {
	d := civil.DisplayDate{
		Year:  formValue(r, field+"_year"),
		Month: formValue(r, field+"_month"),
		Day:   formValue(r, field+"_day"),
	}
	if d.IsZero() {
		return d
	}
	return civil.Normalize(d)
}

// formProvinces reads the preferred province selects. Entries beyond the
// limit and duplicates are dropped; a province named by remove_province
// is taken out.
func formProvinces(r *http.Request) profile.ProvinceList {
	var list profile.ProvinceList
	for _, p := range r.PostForm[fieldPreferredProvinces] {
		for _, part := range strings.Split(p, ",") {
			list.Add(part)
		}
	}
	if remove := formValue(r, fieldRemoveProvince); remove != "" {
		list.Remove(remove)
	}
	return list
}

func parseProfileForm(r *http.Request) profile.ProfileForm {
	return profile.ProfileForm{
		FirstName:        formValue(r, "first_name"),
		LastName:         formValue(r, "last_name"),
		Gender:           formValue(r, "gender"),
		BirthDate:        formDate(r, "birth_date"),
		Nationality:      formValue(r, "nationality"),
		Religion:         formValue(r, "religion"),
		Weight:           formValue(r, "weight"),
		Height:           formValue(r, "height"),
		EnglishLevel:     formValue(r, "english_level"),
		Skills:           formValue(r, "skills"),
		PhoneNumber:      formValue(r, "phone_number"),
		Email:            formValue(r, "email"),
		Address:          formValue(r, "address"),
		Province:         formValue(r, "province"),
		District:         formValue(r, "district"),
		Subdistrict:      formValue(r, "subdistrict"),
		Zipcode:          formValue(r, "zipcode"),
		ProfilePicture:   formValue(r, "profile_picture"),
		PositionType:     formValue(r, "position_type"),
		PositionInterest: formValue(r, "position_interest"),
		Provinces:        formProvinces(r),
	}
}

func parseEducationForm(r *http.Request) profile.EducationForm {
	return profile.EducationForm{
		Level:           formValue(r, "level"),
		InstitutionName: formValue(r, "institution_name"),
		Faculty:         formValue(r, "faculty"),
		FieldOfStudy:    formValue(r, "field_of_study"),
		GPA:             formValue(r, "gpa"),
		Status:          formValue(r, "status"),
	}
}

func parseTrainingForm(r *http.Request) profile.TrainingForm {
	return profile.TrainingForm{
		Topic:        formValue(r, "topic"),
		Details:      formValue(r, "details"),
		Trainer:      formValue(r, "trainer"),
		TrainingDate: formDate(r, "training_date"),
	}
}

func parseWorkHistoryForm(r *http.Request) profile.WorkHistoryForm {
	f := profile.WorkHistoryForm{
		Position:       formValue(r, "position"),
		CompanyName:    formValue(r, "company_name"),
		JobDescription: formValue(r, "job_description"),
		StartDate:      formDate(r, "start_date"),
		IsCurrent:      r.PostFormValue("is_current") == "on" || r.PostFormValue("is_current") == "true",
	}
	if !f.IsCurrent {
		f.EndDate = formDate(r, "end_date")
	}
	return f
}
