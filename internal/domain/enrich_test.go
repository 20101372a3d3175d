package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBerthDictionary(t *testing.T) {
	t.Run("indexes by normalized key", func(t *testing.T) {
		dict, dups := NewBerthDictionary([]BerthDictionaryEntry{
			{Zone: "St. James Stevedoring", Facility: "St James", Type: "Berth"},
		})
		require.Empty(t, dups)

		entry, ok := dict.Lookup("st james  stevedoring.")
		require.True(t, ok)
		assert.Equal(t, "St James", entry.Facility)
		assert.Equal(t, "Berth", entry.Type)
	})

	t.Run("first entry wins on duplicate keys", func(t *testing.T) {
		dict, dups := NewBerthDictionary([]BerthDictionaryEntry{
			{Zone: "Ama Anchorage", Facility: "First", Type: "Anchorage"},
			{Zone: "AMA ANCHORAGE.", Facility: "Second", Type: "Anchorage"},
		})

		require.Equal(t, []string{"ama anchorage"}, dups)
		entry, ok := dict.Lookup("Ama Anchorage")
		require.True(t, ok)
		assert.Equal(t, "First", entry.Facility)
		assert.Equal(t, 1, dict.Len())
	})

	t.Run("blank zones are skipped", func(t *testing.T) {
		dict, dups := NewBerthDictionary([]BerthDictionaryEntry{
			{Zone: "   ", Facility: "Nowhere", Type: "Berth"},
		})
		require.Empty(t, dups)
		assert.Equal(t, 0, dict.Len())
	})
}

func TestEnrichIntervals(t *testing.T) {
	dict, _ := NewBerthDictionary([]BerthDictionaryEntry{
		{Zone: "Convent Marine Terminal", Facility: "Convent", Type: "Berth"},
	})

	intervals := []EventInterval{
		{PairID: "Pair_000001_1234567_0124", Zone: "convent marine terminal."},
		{PairID: "Pair_000002_1234567_0124", Zone: "Unknown Dock"},
	}

	enriched, hits := EnrichIntervals(intervals, dict)

	require.Len(t, enriched, 2)
	assert.Equal(t, 1, hits)

	assert.Equal(t, "Convent", enriched[0].Facility)
	assert.Equal(t, "Berth", enriched[0].FacilityType)
	// Free-text zone label is preserved, not replaced by the dictionary form.
	assert.Equal(t, "convent marine terminal.", enriched[0].Zone)

	// Unmatched intervals are retained with empty facility fields.
	assert.Empty(t, enriched[1].Facility)
	assert.Empty(t, enriched[1].FacilityType)
	assert.Equal(t, "Pair_000002_1234567_0124", enriched[1].PairID)
}
