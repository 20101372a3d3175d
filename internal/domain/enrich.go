package domain

// BerthDictionary is the facility reference data indexed by normalized zone key.
type BerthDictionary struct {
	byKey map[string]BerthDictionaryEntry
}

// NewBerthDictionary indexes dictionary entries by normalized zone key. When
// two entries normalize to the same key the first one wins deterministically;
// the losing keys are returned so the caller can surface them.
func NewBerthDictionary(entries []BerthDictionaryEntry) (*BerthDictionary, []string) {
	byKey := make(map[string]BerthDictionaryEntry, len(entries))
	var duplicates []string
	for _, e := range entries {
		key := NormalizeKey(e.Zone)
		if key == "" {
			continue
		}
		if _, exists := byKey[key]; exists {
			duplicates = append(duplicates, key)
			continue
		}
		byKey[key] = e
	}
	return &BerthDictionary{byKey: byKey}, duplicates
}

// Len returns the number of distinct zone keys.
func (d *BerthDictionary) Len() int { return len(d.byKey) }

// Lookup resolves a raw zone label to its dictionary entry.
func (d *BerthDictionary) Lookup(zone string) (BerthDictionaryEntry, bool) {
	e, ok := d.byKey[NormalizeKey(zone)]
	return e, ok
}

// EnrichIntervals left-joins intervals to the berth dictionary on the
// normalized zone key. Every interval is retained; Facility and FacilityType
// stay empty when the zone has no dictionary entry. Returns the enriched set
// and the number of dictionary hits.
func EnrichIntervals(intervals []EventInterval, dict *BerthDictionary) ([]EnrichedInterval, int) {
	out := make([]EnrichedInterval, 0, len(intervals))
	hits := 0
	for _, iv := range intervals {
		enriched := EnrichedInterval{EventInterval: iv}
		if e, ok := dict.Lookup(iv.Zone); ok {
			enriched.Facility = e.Facility
			enriched.FacilityType = e.Type
			hits++
		}
		out = append(out, enriched)
	}
	return out, hits
}
