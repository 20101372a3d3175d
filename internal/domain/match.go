package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Lookup intervals whose facility type contains one of these fragments are not
// berth calls and must never be offered as manifest matches.
var nonBerthTypes = []string{"pilot station", "anchorage"}

// MatcherOptions tunes the cross-dataset matcher.
type MatcherOptions struct {
	// ToleranceDays is the maximum whole-day distance between a manifest
	// arrival date and a candidate's ArriveTime.
	ToleranceDays int
	// Budget is the wall-clock allowance for one MatchAll call. Zero means
	// no budget.
	Budget time.Duration
	// CheckEvery is the row interval between budget and cancellation checks.
	CheckEvery int
}

// DefaultMatcherOptions mirror the production run settings.
func DefaultMatcherOptions() MatcherOptions {
	return MatcherOptions{
		ToleranceDays: 4,
		Budget:        30 * time.Minute,
		CheckEvery:    1000,
	}
}

// MatchStats counts per-run matcher outcomes.
type MatchStats struct {
	Matched        int
	NotMatched     int
	Errors         int
	IMOMatches     int // matched via the identifier index
	NameMatches    int // matched via the name-index fallback
	LookupFiltered int // lookup rows dropped as non-berth
}

// MatchRun is the result of one MatchAll call. Matches is parallel to the
// first Processed input rows; when the run stops early the remaining rows are
// simply not present.
type MatchRun struct {
	Matches   []ManifestMatch
	Processed int
	TimedOut  bool
	Cancelled bool
	Stats     MatchStats
}

// Matcher resolves manifest rows against the enriched interval universe using
// two insertion-ordered indexes. The indexes are read-only after construction,
// so a Matcher is safe for concurrent MatchRow calls.
type Matcher struct {
	byIMO  map[string][]*EnrichedInterval
	byName map[string][]*EnrichedInterval
	opts   MatcherOptions
	stats  MatchStats
}

// NewMatcher filters the lookup universe and builds the identifier and name
// indexes. Index order follows lookup input order, which fixes the tie-break:
// the first candidate within tolerance wins, not the closest.
func NewMatcher(lookup []EnrichedInterval, opts MatcherOptions) *Matcher {
	if opts.ToleranceDays <= 0 {
		opts.ToleranceDays = 4
	}
	if opts.CheckEvery <= 0 {
		opts.CheckEvery = 1000
	}

	m := &Matcher{
		byIMO:  make(map[string][]*EnrichedInterval),
		byName: make(map[string][]*EnrichedInterval),
		opts:   opts,
	}

	for i := range lookup {
		iv := &lookup[i]
		if isNonBerth(iv.FacilityType) {
			m.stats.LookupFiltered++
			continue
		}
		if imo := strings.TrimSpace(iv.IMO); !isPlaceholder(imo) {
			m.byIMO[imo] = append(m.byIMO[imo], iv)
		}
		if name := NormalizeKey(iv.Name); name != "" {
			m.byName[name] = append(m.byName[name], iv)
		}
	}
	return m
}

// LookupFiltered returns the number of lookup rows dropped as non-berth.
func (m *Matcher) LookupFiltered() int { return m.stats.LookupFiltered }

// MatchAll processes manifest rows in order, stopping early when the context
// is cancelled or the wall-clock budget runs out. Both stops are soft: the
// rows completed so far are returned, never an error.
func (m *Matcher) MatchAll(ctx context.Context, rows []ManifestRecord) MatchRun {
	run := MatchRun{
		Matches: make([]ManifestMatch, 0, len(rows)),
		Stats:   MatchStats{LookupFiltered: m.stats.LookupFiltered},
	}
	start := clock.Now()

	for i, row := range rows {
		if i%m.opts.CheckEvery == 0 {
			if ctx.Err() != nil {
				run.Cancelled = true
				break
			}
			if m.opts.Budget > 0 && i > 0 && clock.Since(start) > m.opts.Budget {
				run.TimedOut = true
				break
			}
		}

		match := m.matchRowSafe(row)
		switch match.Status {
		case ManifestMatched:
			run.Stats.Matched++
			if match.MatchedBy == "imo" {
				run.Stats.IMOMatches++
			} else {
				run.Stats.NameMatches++
			}
		case ManifestError:
			run.Stats.Errors++
		default:
			run.Stats.NotMatched++
		}
		run.Matches = append(run.Matches, match)
		run.Processed++
	}
	return run
}

// matchRowSafe isolates one row: any panic while matching becomes a
// ManifestError outcome for that row alone.
func (m *Matcher) matchRowSafe(row ManifestRecord) (match ManifestMatch) {
	defer func() {
		if r := recover(); r != nil {
			match = ManifestMatch{Status: ManifestError, Err: fmt.Errorf("match row: %v", r)}
		}
	}()
	return m.MatchRow(row)
}

// MatchRow finds the best interval for one manifest row. The identifier index
// is primary; the name index is consulted only when the identifier is absent
// or yields no candidates. Candidates are walked in index order and the first
// one within the date tolerance is accepted.
func (m *Matcher) MatchRow(row ManifestRecord) ManifestMatch {
	imo := strings.TrimSpace(row.VesselIMO)
	name := NormalizeKey(row.Vessel)

	if isPlaceholder(imo) && name == "" {
		return ManifestMatch{Status: ManifestNotMatched}
	}

	var candidates []*EnrichedInterval
	matchedBy := "imo"
	if !isPlaceholder(imo) {
		candidates = m.byIMO[imo]
	}
	if len(candidates) == 0 && name != "" {
		candidates = m.byName[name]
		matchedBy = "name"
	}

	rowDate, ok := ParseFlexibleDate(row.ArrivalDate)
	if !ok {
		return ManifestMatch{Status: ManifestNotMatched}
	}

	for _, cand := range candidates {
		if WithinDays(rowDate, cand.ArriveTime, m.opts.ToleranceDays) {
			return ManifestMatch{
				Status:       ManifestMatched,
				MatchedBy:    matchedBy,
				PairID:       cand.PairID,
				Zone:         cand.Zone,
				Facility:     cand.Facility,
				FacilityType: cand.FacilityType,
				ArriveTime:   cand.ArriveTime,
				DepartTime:   cand.DepartTime,
			}
		}
	}
	return ManifestMatch{Status: ManifestNotMatched}
}

// isNonBerth reports whether a facility type marks a non-berthing event.
func isNonBerth(facilityType string) bool {
	t := strings.ToLower(facilityType)
	for _, frag := range nonBerthTypes {
		if strings.Contains(t, frag) {
			return true
		}
	}
	return false
}

// isPlaceholder reports whether an identifier value carries no information.
// The feed exports literal "nan"/"None" strings for missing identifiers.
func isPlaceholder(imo string) bool {
	switch strings.ToLower(imo) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}
