package domain

import "time"

// IntervalStatus classifies how a berth-stay interval was formed.
type IntervalStatus string

const (
	StatusMatched        IntervalStatus = "Matched"
	StatusMismatchArrive IntervalStatus = "Mismatch_Arrive"
	StatusMismatchDepart IntervalStatus = "Mismatch_Depart"
	StatusSWPEnterExit   IntervalStatus = "SWP_EnterExit"
	StatusOther          IntervalStatus = "Other"
)

// Manifest row outcomes written by the matcher.
const (
	ManifestMatched    = "Matched"
	ManifestNotMatched = "Not Matched"
	ManifestError      = "Error"
)

// RawMovementEvent is one reported sighting of a vessel at a zone.
// Created during ingestion and immutable afterward.
type RawMovementEvent struct {
	IMO        string // canonical 7-character identifier
	Name       string // trimmed vessel name, case preserved
	Zone       string // free-text location label
	Action     string // arrive, depart, enter, exit, or other free text
	Time       time.Time // zero when the feed timestamp did not parse
	Agent      string
	VesselType string // feed "Type" column, pass-through
	Draft      string
	Mile       string
	SourceFile string
}

// EventInterval is a berth-stay interval produced by the aligner.
// Zero ArriveTime/DepartTime means the side is absent.
type EventInterval struct {
	PairID     string
	IMO        string
	Name       string
	Zone       string
	Agent      string
	VesselType string
	Draft      string
	Mile       string
	ArriveTime time.Time
	DepartTime time.Time
	SourceFile string
	Status     IntervalStatus
}

// BerthDictionaryEntry maps a canonical zone label to its facility.
type BerthDictionaryEntry struct {
	Zone     string
	Facility string
	Type     string
}

// EnrichedInterval is an EventInterval plus the facility fields resolved from
// the berth dictionary. Facility and FacilityType are empty when the zone had
// no dictionary entry.
type EnrichedInterval struct {
	EventInterval
	Facility     string
	FacilityType string
}

// ManifestRecord is one row of the external trade-manifest dataset. Fields
// holds the full row in input column order; the named fields are extracted
// from the required columns for matching. Pass-through columns are never
// altered.
type ManifestRecord struct {
	Vessel      string
	VesselIMO   string
	ArrivalDate string
	Fields      []string
}

// ManifestMatch is the per-row outcome of the cross-dataset matcher. The
// enrichment fields are populated only when Status is ManifestMatched. Err
// carries the reason when Status is ManifestError.
type ManifestMatch struct {
	Status       string
	MatchedBy    string // "imo" or "name" when Status is ManifestMatched
	PairID       string
	Zone         string
	Facility     string
	FacilityType string
	ArriveTime   time.Time
	DepartTime   time.Time
	Err          error
}
