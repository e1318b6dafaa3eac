// Package temporal converts free-text date expressions into canonical
// calendar dates and reformats them for the Agmarknet query form.
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CanonicalLayout is the canonical calendar date format used across slots.
const CanonicalLayout = "2006-01-02"

// ExternalLayout is the date format the Agmarknet search form expects.
const ExternalLayout = "02-Jan-2006"

var (
	inDaysRe    = regexp.MustCompile(`in\s+(\d+)\s+days?`)
	inWeeksRe   = regexp.MustCompile(`in\s+(\d+)\s+weeks?`)
	isoDateRe   = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})\b`)
)

// Normalize converts a relative or absolute date expression into a canonical
// YYYY-MM-DD string relative to ref. Ambiguous or unparseable input returns
// ("", false); it never panics or errors.
func Normalize(text string, ref time.Time) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return "", false
	}
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	switch t {
	case "today", "tod", "now":
		return day.Format(CanonicalLayout), true
	case "yesterday", "yest":
		return day.AddDate(0, 0, -1).Format(CanonicalLayout), true
	case "tomorrow", "tmw":
		return day.AddDate(0, 0, 1).Format(CanonicalLayout), true
	}

	// Multi-word keywords match as substrings, mirroring how people embed
	// them in longer answers ("maybe the day after tomorrow?").
	switch {
	case strings.Contains(t, "day after tomorrow"):
		return day.AddDate(0, 0, 2).Format(CanonicalLayout), true
	case strings.Contains(t, "day before yesterday"):
		return day.AddDate(0, 0, -2).Format(CanonicalLayout), true
	}

	if m := inDaysRe.FindStringSubmatch(t); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return day.AddDate(0, 0, n).Format(CanonicalLayout), true
		}
	}
	if m := inWeeksRe.FindStringSubmatch(t); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return day.AddDate(0, 0, 7*n).Format(CanonicalLayout), true
		}
	}

	switch {
	case strings.Contains(t, "next week"):
		return day.AddDate(0, 0, 7).Format(CanonicalLayout), true
	case strings.Contains(t, "last week"):
		return day.AddDate(0, 0, -7).Format(CanonicalLayout), true
	case strings.Contains(t, "this week"):
		return day.Format(CanonicalLayout), true
	}

	if m := isoDateRe.FindStringSubmatch(t); m != nil {
		if _, err := time.Parse(CanonicalLayout, m[1]); err == nil {
			return m[1], true
		}
		return "", false
	}

	// D/M/Y or D-M-Y; two-digit years are assumed to be 2000s.
	if m := slashDateRe.FindStringSubmatch(t); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			y += 2000
		}
		parsed := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes overflow (e.g. 32/01 -> 01/02); reject those.
		if parsed.Day() != d || int(parsed.Month()) != mo || parsed.Year() != y {
			return "", false
		}
		return parsed.Format(CanonicalLayout), true
	}

	return "", false
}

// ToExternalFormat reformats a canonical YYYY-MM-DD date into the DD-Mon-YYYY
// form the external listing site expects. Invalid input yields ("", false).
func ToExternalFormat(canonical string) (string, bool) {
	parsed, err := time.Parse(CanonicalLayout, canonical)
	if err != nil {
		return "", false
	}
	return parsed.Format(ExternalLayout), true
}
