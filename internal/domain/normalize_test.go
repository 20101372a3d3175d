package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercases", "AMA Anchorage", "ama anchorage"},
		{"strips punctuation", "St. James Stevedoring, Wharf #2", "st james stevedoring wharf 2"},
		{"collapses whitespace", "ama   anchorage \t fleet", "ama anchorage fleet"},
		{"trims", "  swp cross  ", "swp cross"},
		{"punctuation only", "...", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.in))
		})
	}
}
