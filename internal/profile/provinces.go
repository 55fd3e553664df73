// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package profile

import (
	"slices"
	"strings"

	"github.com/olegiv/postdoc-portal/internal/model"
)

// ProvinceList is the ordered set of preferred work provinces. It never
// holds more than model.MaxPreferredProvinces entries or any duplicate.
type ProvinceList struct {
	items []string
}

// ParseProvinceList reads the comma-joined form stored on the profile.
// Blank entries and duplicates are dropped and extra entries ignored.
func ParseProvinceList(s string) ProvinceList {
	var l ProvinceList
	for _, p := range strings.Split(s, ",") {
		l.Add(p)
	}
	return l
}

// Add appends p. It reports false when p is blank, already present or the
// list is full.
func (l *ProvinceList) Add(p string) bool {
	p = strings.TrimSpace(p)
	if p == "" || len(l.items) >= model.MaxPreferredProvinces || l.Contains(p) {
		return false
	}
	l.items = append(l.items, p)
	return true
}

// Remove deletes p if present.
func (l *ProvinceList) Remove(p string) {
	p = strings.TrimSpace(p)
	l.items = slices.DeleteFunc(l.items, func(s string) bool { return s == p })
}

// Contains reports whether p is in the list.
func (l ProvinceList) Contains(p string) bool {
	return slices.Contains(l.items, strings.TrimSpace(p))
}

// Items returns a copy of the entries.
func (l ProvinceList) Items() []string {
	return slices.Clone(l.items)
}

// Len returns the number of entries.
func (l ProvinceList) Len() int { return len(l.items) }

// Full reports whether no more entries can be added.
func (l ProvinceList) Full() bool { return len(l.items) >= model.MaxPreferredProvinces }

// String returns the comma-joined storage form.
func (l ProvinceList) String() string {
	return strings.Join(l.items, ",")
}
