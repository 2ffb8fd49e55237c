// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

import (
	"testing"
)

func TestNewItemset_Canonical(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  string
	}{
		{"sorted input", []Item{"A", "B"}, "{A, B}"},
		{"unsorted input", []Item{"C", "A", "B"}, "{A, B, C}"},
		{"duplicates dropped", []Item{"B", "A", "B", "A"}, "{A, B}"},
		{"empty", nil, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewItemset(tt.items...)
			if got.String() != tt.want {
				t.Errorf("NewItemset(%v) = %s, want %s", tt.items, got, tt.want)
			}
			if got == nil {
				t.Error("NewItemset() returned nil")
			}
		})
	}
}

func TestItemset_EqualityIgnoresConstructionOrder(t *testing.T) {
	a := ItemsetOf("Heat", "Alien", "Brazil")
	b := ItemsetOf("Brazil", "Heat", "Alien", "Heat")

	if !a.Equal(b) {
		t.Errorf("%s and %s should be equal", a, b)
	}
	if a.Key() != b.Key() {
		t.Errorf("Key() differs: %q vs %q", a.Key(), b.Key())
	}
}

func TestItemset_KeyIsUnambiguous(t *testing.T) {
	pairs := []struct {
		a, b Itemset
	}{
		{ItemsetOf("ab", "c"), ItemsetOf("a", "bc")},
		{ItemsetOf("a:b"), ItemsetOf("a", "b")},
		{ItemsetOf("1:a"), ItemsetOf("a")},
	}

	for _, p := range pairs {
		if p.a.Key() == p.b.Key() {
			t.Errorf("%s and %s share key %q", p.a, p.b, p.a.Key())
		}
	}
}

func TestItemset_SetOperations(t *testing.T) {
	abc := ItemsetOf("A", "B", "C")
	ac := ItemsetOf("A", "C")
	bd := ItemsetOf("B", "D")
	empty := ItemsetOf()

	t.Run("IsSubsetOf", func(t *testing.T) {
		tests := []struct {
			s, other Itemset
			want     bool
		}{
			{ac, abc, true},
			{abc, abc, true},
			{empty, abc, true},
			{bd, abc, false},
			{abc, ac, false},
		}
		for _, tt := range tests {
			if got := tt.s.IsSubsetOf(tt.other); got != tt.want {
				t.Errorf("%s.IsSubsetOf(%s) = %v, want %v", tt.s, tt.other, got, tt.want)
			}
		}
	})

	t.Run("Union", func(t *testing.T) {
		if got := ac.Union(bd); got.String() != "{A, B, C, D}" {
			t.Errorf("Union = %s, want {A, B, C, D}", got)
		}
		if got := abc.Union(ac); !got.Equal(abc) {
			t.Errorf("Union = %s, want %s", got, abc)
		}
	})

	t.Run("Minus", func(t *testing.T) {
		if got := abc.Minus(ac); got.String() != "{B}" {
			t.Errorf("Minus = %s, want {B}", got)
		}
		if got := ac.Minus(abc); !got.IsEmpty() {
			t.Errorf("Minus = %s, want {}", got)
		}
	})

	t.Run("Contains and Intersects", func(t *testing.T) {
		if !abc.Contains("B") || abc.Contains("D") {
			t.Error("Contains reported wrong membership")
		}
		if !abc.Intersects(bd) || ac.Intersects(ItemsetOf("B", "D")) {
			t.Error("Intersects reported wrong overlap")
		}
	})
}

func TestCompareItemsets(t *testing.T) {
	tests := []struct {
		name string
		a, b Itemset
		want int
	}{
		{"smaller size first", ItemsetOf("Z"), ItemsetOf("A", "B"), -1},
		{"lexicographic within size", ItemsetOf("A", "C"), ItemsetOf("B", "C"), -1},
		{"equal", ItemsetOf("A", "B"), ItemsetOf("B", "A"), 0},
		{"larger after", ItemsetOf("A", "B", "C"), ItemsetOf("X"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareItemsets(tt.a, tt.b)
			if sign(got) != tt.want {
				t.Errorf("CompareItemsets(%s, %s) = %d, want sign %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
