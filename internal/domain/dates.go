package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// serialEpoch anchors legacy spreadsheet serial-day numbers. Matches the
// upstream feed's convention of counting days from 1900-01-01.
var serialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order. US slash forms come before EU ones, so an
// ambiguous value like 03/04/2024 reads as March 4th; EU forms only catch
// values the US forms reject (day > 12).
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006",
	"20060102",
}

// ParseFlexibleDate parses the date shapes seen across the movement feed and
// the manifest: ISO timestamps, US and EU slash dates, compact 8-digit dates,
// and spreadsheet serial-day numbers. Returns false for empty values, NA-style
// placeholders, and anything unrecognized.
func ParseFlexibleDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	switch strings.ToLower(s) {
	case "nan", "nat", "none", "null":
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// Serial-day fallback: a bare number is days (with optional fraction)
	// since the 1900 epoch.
	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 {
		whole := math.Floor(v)
		frac := v - whole
		t := serialEpoch.AddDate(0, 0, int(whole))
		if frac > 0 {
			t = t.Add(time.Duration(frac * 24 * float64(time.Hour)))
		}
		return t, true
	}

	return time.Time{}, false
}

// WithinDays reports whether a and b are at most tol whole days apart.
// Zero times never match anything.
func WithinDays(a, b time.Time, tol int) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours()/24) <= tol
}
