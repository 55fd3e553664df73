// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"errors"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/olegiv/postdoc-portal/internal/civil"
	"github.com/olegiv/postdoc-portal/internal/i18n"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"T": i18n.T,
		// displayDate shows an ISO storage date in the display calendar.
		"displayDate": func(storage string) string {
			d, err := civil.ToDisplay(storage)
			if err != nil || d.IsZero() {
				return "-"
			}
			return d.Day + "/" + d.Month + "/" + d.Year
		},
		"derefDate": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"truncate": func(s string, length int) string {
			r := []rune(s)
			if len(r) <= length {
				return s
			}
			return string(r[:length]) + "..."
		},
		"join":     strings.Join,
		"contains": slices.Contains[[]string, string],
		"add": func(a, b int) int {
			return a + b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
		"pad2": func(n int) string {
			return fmt.Sprintf("%02d", n)
		},
		// dict builds a map from key/value pairs so partials can take
		// several arguments.
		"dict": func(values ...any) (map[string]any, error) {
			if len(values)%2 != 0 {
				return nil, errors.New("dict: odd number of arguments")
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", values[i])
				}
				m[key] = values[i+1]
			}
			return m, nil
		},
	}
}
