package domain

import (
	"fmt"
	"strings"
)

// imoLength is the significant prefix of a vendor vessel identifier.
const imoLength = 7

// CanonicalIMO reduces a raw vendor identifier to its canonical 7-character
// form. Longer values are truncated; values shorter than 7 characters after
// trimming are unusable and rejected.
func CanonicalIMO(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) < imoLength {
		return "", fmt.Errorf("imo %q shorter than %d characters", raw, imoLength)
	}
	return s[:imoLength], nil
}

// ExclusionSet holds lowercased vessel names to drop from the feed.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds an ExclusionSet from configured names.
func NewExclusionSet(names []string) ExclusionSet {
	set := make(ExclusionSet, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return set
}

// Excluded reports whether the vessel name is on the exclusion list. The match
// is exact on the full lowercased name, never a substring.
func (s ExclusionSet) Excluded(name string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// StandardizeStats counts records dropped while standardizing.
type StandardizeStats struct {
	Excluded int // on the exclusion list
	Rejected int // identifier failed coercion
}

// Standardize canonicalizes identifiers and names across the combined event
// stream and applies the exclusion list. Records failing identifier coercion
// are dropped and counted, never fatal. Input order is preserved; sorting is
// the aligner's job.
func Standardize(events []RawMovementEvent, exclude ExclusionSet) ([]RawMovementEvent, StandardizeStats) {
	out := make([]RawMovementEvent, 0, len(events))
	var stats StandardizeStats

	for _, ev := range events {
		imo, err := CanonicalIMO(ev.IMO)
		if err != nil {
			stats.Rejected++
			continue
		}
		ev.IMO = imo
		ev.Name = strings.TrimSpace(ev.Name)
		if exclude.Excluded(ev.Name) {
			stats.Excluded++
			continue
		}
		out = append(out, ev)
	}
	return out, stats
}
