package temporal

import (
	"testing"
	"time"
)

var ref = time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)

func TestNormalizeKeywords(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"today", "2024-05-01"},
		{"Today", "2024-05-01"},
		{"now", "2024-05-01"},
		{"tod", "2024-05-01"},
		{"tomorrow", "2024-05-02"},
		{"tmw", "2024-05-02"},
		{"yesterday", "2024-04-30"},
		{"yest", "2024-04-30"},
		{"day after tomorrow", "2024-05-03"},
		{"day before yesterday", "2024-04-29"},
		{"next week", "2024-05-08"},
		{"last week", "2024-04-24"},
		{"this week", "2024-05-01"},
	}
	for _, c := range cases {
		got, ok := Normalize(c.in, ref)
		if !ok {
			t.Fatalf("Normalize(%q) not ok", c.in)
		}
		if got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeRelativeOffsets(t *testing.T) {
	got, ok := Normalize("in 3 days", ref)
	if !ok || got != "2024-05-04" {
		t.Fatalf("in 3 days = %q (%v), want 2024-05-04", got, ok)
	}
	got, ok = Normalize("in 2 weeks", ref)
	if !ok || got != "2024-05-15" {
		t.Fatalf("in 2 weeks = %q (%v), want 2024-05-15", got, ok)
	}
}

func TestNormalizeExplicitDates(t *testing.T) {
	got, ok := Normalize("2024-05-02", ref)
	if !ok || got != "2024-05-02" {
		t.Fatalf("ISO date = %q (%v)", got, ok)
	}

	// D/M/Y with 4-digit year.
	got, ok = Normalize("25/08/2025", ref)
	if !ok || got != "2025-08-25" {
		t.Fatalf("25/08/2025 = %q (%v)", got, ok)
	}

	// Two-digit year assumed 2000s; dashes accepted.
	got, ok = Normalize("5-3-24", ref)
	if !ok || got != "2024-03-05" {
		t.Fatalf("5-3-24 = %q (%v)", got, ok)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "Mars", "32/01/2024", "0/0/2024", "next lifetime", "2024-13-40"} {
		if got, ok := Normalize(in, ref); ok {
			t.Fatalf("Normalize(%q) = %q, want absent", in, got)
		}
	}
}

func TestToExternalFormatRoundTrip(t *testing.T) {
	canonical, ok := Normalize("tomorrow", ref)
	if !ok {
		t.Fatal("tomorrow should normalize")
	}
	ext, ok := ToExternalFormat(canonical)
	if !ok {
		t.Fatalf("ToExternalFormat(%q) not ok", canonical)
	}
	if ext != "02-May-2024" {
		t.Fatalf("ToExternalFormat(%q) = %q, want 02-May-2024", canonical, ext)
	}
}

func TestToExternalFormatInvalid(t *testing.T) {
	if got, ok := ToExternalFormat("not-a-date"); ok {
		t.Fatalf("ToExternalFormat(not-a-date) = %q, want absent", got)
	}
}
