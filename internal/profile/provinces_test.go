// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package profile

import "testing"

func TestProvinceListAdd(t *testing.T) {
	var l ProvinceList

	for _, p := range []string{"Bangkok", "Chiang Mai", "Bangkok", " ", "Phuket", "Khon Kaen"} {
		l.Add(p)
	}

	if got := l.String(); got != "Bangkok,Chiang Mai,Phuket" {
		t.Errorf("String() = %q", got)
	}
	if !l.Full() {
		t.Error("expected list to be full")
	}
	if l.Add("Songkhla") {
		t.Error("Add() on a full list returned true")
	}
}

func TestProvinceListRemove(t *testing.T) {
	l := ParseProvinceList("Bangkok,Chiang Mai,Phuket")
	l.Remove("Chiang Mai")
	l.Remove("Nan")

	if got := l.String(); got != "Bangkok,Phuket" {
		t.Errorf("String() = %q", got)
	}
	if !l.Add("Nan") {
		t.Error("Add() after Remove() should succeed")
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
}

func TestParseProvinceList(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Bangkok", "Bangkok"},
		{"Bangkok,,Phuket", "Bangkok,Phuket"},
		{"a,a,b", "a,b"},
		{"a,b,c,d,e", "a,b,c"},
		{" a , b ", "a,b"},
	}

	for _, tt := range tests {
		l := ParseProvinceList(tt.input)
		if got := l.String(); got != tt.want {
			t.Errorf("ParseProvinceList(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if l.Len() > 3 {
			t.Errorf("ParseProvinceList(%q) has %d entries", tt.input, l.Len())
		}
	}
}

func TestProvinceListItemsIsCopy(t *testing.T) {
	l := ParseProvinceList("a,b")
	items := l.Items()
	items[0] = "z"
	if l.Contains("z") {
		t.Error("Items() exposed internal slice")
	}
}
