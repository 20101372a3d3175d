package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected time.Time
		ok       bool
	}{
		{"iso date", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"iso datetime", "2024-01-02 15:04:05", time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC), true},
		{"iso t separator", "2024-01-02T15:04:05", time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC), true},
		{"us slash", "01/02/2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"us slash no leading zero", "1/2/2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"eu slash when us form impossible", "13/02/2024", time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC), true},
		{"compact eight digit", "20240102", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"serial days", "366", time.Date(1901, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"serial days with fraction", "366.5", time.Date(1901, 1, 2, 12, 0, 0, 0, time.UTC), true},
		{"whitespace trimmed", "  2024-01-02  ", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"nan placeholder", "nan", time.Time{}, false},
		{"nat placeholder", "NaT", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFlexibleDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestWithinDays(t *testing.T) {
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		other    time.Time
		tol      int
		expected bool
	}{
		{"same day", base, 4, true},
		{"exactly at tolerance", base.AddDate(0, 0, 4), 4, true},
		{"exactly at tolerance earlier", base.AddDate(0, 0, -4), 4, true},
		{"one past tolerance", base.AddDate(0, 0, 5), 4, false},
		{"one past tolerance earlier", base.AddDate(0, 0, -5), 4, false},
		{"partial fifth day still within", base.Add(4*24*time.Hour + 12*time.Hour), 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WithinDays(base, tt.other, tt.tol))
			assert.Equal(t, tt.expected, WithinDays(tt.other, base, tt.tol))
		})
	}

	t.Run("zero times never match", func(t *testing.T) {
		assert.False(t, WithinDays(time.Time{}, base, 4))
		assert.False(t, WithinDays(base, time.Time{}, 4))
	})
}
