// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package civil converts dates between the storage calendar used by the API
// (ISO 8601, Gregorian years) and the display calendar used by the forms
// (Buddhist Era, Gregorian year + 543).
//
// Storage dates are plain strings and display dates are DisplayDate values,
// so each conversion can only be applied once per direction.
package civil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// YearOffset is the difference between the display year and the storage year.
const YearOffset = 543

const isoLayout = "2006-01-02"

// ErrInvalidDate is returned for dates that cannot be parsed or do not exist.
var ErrInvalidDate = errors.New("invalid date")

// DisplayDate is a date in the display calendar, split into form parts.
// Month and Day are zero-padded to two digits.
type DisplayDate struct {
	Year  string
	Month string
	Day   string
}

// IsZero reports whether no part of the date is set.
func (d DisplayDate) IsZero() bool {
	return d.Year == "" && d.Month == "" && d.Day == ""
}

// IsComplete reports whether all three parts are set.
func (d DisplayDate) IsComplete() bool {
	return d.Year != "" && d.Month != "" && d.Day != ""
}

// String returns the date as YYYY-MM-DD in the display calendar,
// or an empty string for the zero value.
func (d DisplayDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Year + "-" + d.Month + "-" + d.Day
}

// ToDisplay converts an ISO storage date (2024-03-15) into display parts
// (2567, 03, 15). A timestamp (2024-03-15T00:00:00Z) contributes its date
// part as written. An empty storage date yields the zero DisplayDate.
func ToDisplay(storage string) (DisplayDate, error) {
	storage = strings.TrimSpace(storage)
	if storage == "" {
		return DisplayDate{}, nil
	}
	if len(storage) > len(isoLayout) && (storage[len(isoLayout)] == 'T' || storage[len(isoLayout)] == ' ') {
		storage = storage[:len(isoLayout)]
	}

	t, err := time.Parse(isoLayout, storage)
	if err != nil {
		return DisplayDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, storage)
	}

	return DisplayDate{
		Year:  strconv.Itoa(t.Year() + YearOffset),
		Month: fmt.Sprintf("%02d", int(t.Month())),
		Day:   fmt.Sprintf("%02d", t.Day()),
	}, nil
}

// ToStorage converts display parts back into an ISO storage date.
// Month and day may be given without padding. The zero DisplayDate yields
// an empty string; a partially filled date is an error.
func ToStorage(d DisplayDate) (string, error) {
	if d.IsZero() {
		return "", nil
	}
	if !d.IsComplete() {
		return "", fmt.Errorf("%w: incomplete date %q", ErrInvalidDate, d.String())
	}

	year, err := strconv.Atoi(strings.TrimSpace(d.Year))
	if err != nil {
		return "", fmt.Errorf("%w: year %q", ErrInvalidDate, d.Year)
	}
	month, err := strconv.Atoi(strings.TrimSpace(d.Month))
	if err != nil {
		return "", fmt.Errorf("%w: month %q", ErrInvalidDate, d.Month)
	}
	day, err := strconv.Atoi(strings.TrimSpace(d.Day))
	if err != nil {
		return "", fmt.Errorf("%w: day %q", ErrInvalidDate, d.Day)
	}

	year -= YearOffset
	if year < 1 {
		return "", fmt.Errorf("%w: year %q before the storage epoch", ErrInvalidDate, d.Year)
	}

	// time.Date normalizes out-of-range values (Feb 30 -> Mar 2), so compare back.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrInvalidDate, year, month, day)
	}

	return t.Format(isoLayout), nil
}

// Normalize trims the parts and zero-pads month and day.
func Normalize(d DisplayDate) DisplayDate {
	d.Year = strings.TrimSpace(d.Year)
	d.Month = pad2(strings.TrimSpace(d.Month))
	d.Day = pad2(strings.TrimSpace(d.Day))
	return d
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// Years returns the last n display-calendar years counting back from the
// year of now, newest first. Used to populate year selectors.
func Years(now time.Time, n int) []int {
	years := make([]int, 0, n)
	current := now.Year() + YearOffset
	for i := 0; i < n; i++ {
		years = append(years, current-i)
	}
	return years
}
