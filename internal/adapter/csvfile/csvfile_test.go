package csvfile

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsd3/rivercall/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const movementHeader = "IMO,Name,Zone,Action,Time,Agent,Type,Draft,Mile\n"

func TestReadMovementFile(t *testing.T) {
	t.Run("parses rows with provenance", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "feed_jan.csv", movementHeader+
			"1234567,RIVER QUEEN,Zone A,arrive,2024-01-01 08:00:00,Acme,Tanker,32,98.5\n"+
			"1234567,RIVER QUEEN,Zone A,depart,2024-01-03 10:00:00,Acme,Tanker,32,98.5\n")

		events, err := ReadMovementFile(path)
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, "1234567", events[0].IMO)
		assert.Equal(t, "Zone A", events[0].Zone)
		assert.Equal(t, "arrive", events[0].Action)
		assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), events[0].Time)
		assert.Equal(t, "Tanker", events[0].VesselType)
		assert.Equal(t, "feed_jan.csv", events[0].SourceFile)
	})

	t.Run("unparseable time carried as zero", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "feed.csv", movementHeader+
			"1234567,RIVER QUEEN,Zone A,arrive,not a time,,,,\n")

		events, err := ReadMovementFile(path)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.True(t, events[0].Time.IsZero())
	})

	t.Run("missing columns reported together", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bad.csv", "IMO,Name,Zone\n1234567,X,Y\n")

		_, err := ReadMovementFile(path)
		require.Error(t, err)

		var missing *MissingColumnsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "bad.csv", missing.File)
		assert.Contains(t, missing.Columns, "Action")
		assert.Contains(t, missing.Columns, "Time")
		assert.Contains(t, missing.Columns, "Mile")
	})
}

func TestReadMovementDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("combines files in name order", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "b_feed.csv", movementHeader+"7654321,DELTA STAR,Zone B,arrive,2024-02-01,,,,\n")
		writeFile(t, dir, "a_feed.csv", movementHeader+"1234567,RIVER QUEEN,Zone A,arrive,2024-01-01,,,,\n")
		writeFile(t, dir, "notes.txt", "not a feed")

		events, err := ReadMovementDir(dir, logger)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "a_feed.csv", events[0].SourceFile)
		assert.Equal(t, "b_feed.csv", events[1].SourceFile)
	})

	t.Run("empty dir yields empty stream", func(t *testing.T) {
		events, err := ReadMovementDir(t.TempDir(), logger)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("column validation failure is fatal", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.csv", "IMO,Name\n1234567,X\n")

		_, err := ReadMovementDir(dir, logger)
		require.Error(t, err)
		var missing *MissingColumnsError
		assert.ErrorAs(t, err, &missing)
	})
}

func TestReadBerthDictionary(t *testing.T) {
	t.Run("parses entries", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "berthdictionary.csv",
			"Zone,Facility,Type\nConvent Marine Terminal,Convent,Berth\nSW Pass,SW Pass,Pilot Station\n")

		entries, err := ReadBerthDictionary(path)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Convent", entries[0].Facility)
		assert.Equal(t, "Pilot Station", entries[1].Type)
	})

	t.Run("missing columns fatal", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "dict.csv", "Zone,Name\nA,B\n")
		_, err := ReadBerthDictionary(path)
		var missing *MissingColumnsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"Facility", "Type"}, missing.Columns)
	})
}

func TestReadManifest(t *testing.T) {
	t.Run("extracts required fields and keeps pass-through", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "manifest.csv",
			"Shipper,Vessel,Vessel IMO,Arrival Date,Cargo\nAcme,River Queen,1234567,2024-01-02,Grain\n")

		mf, err := ReadManifest(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Shipper", "Vessel", "Vessel IMO", "Arrival Date", "Cargo"}, mf.Columns)
		require.Len(t, mf.Rows, 1)

		row := mf.Rows[0]
		assert.Equal(t, "River Queen", row.Vessel)
		assert.Equal(t, "1234567", row.VesselIMO)
		assert.Equal(t, "2024-01-02", row.ArrivalDate)
		assert.Equal(t, []string{"Acme", "River Queen", "1234567", "2024-01-02", "Grain"}, row.Fields)
	})

	t.Run("missing required column fatal", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "manifest.csv", "Vessel,Arrival Date\nX,2024-01-01\n")
		_, err := ReadManifest(path)
		var missing *MissingColumnsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"Vessel IMO"}, missing.Columns)
	})
}

func TestWriter(t *testing.T) {
	frozen := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	t.Run("writes matched manifest with appended columns", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriterWithClock(frozen)

		mf := &ManifestFile{
			Columns: []string{"Vessel", "Vessel IMO", "Arrival Date"},
			Rows: []domain.ManifestRecord{
				{Fields: []string{"River Queen", "1234567", "2024-01-02"}},
				{Fields: []string{"Delta Star", "7654321", "2024-01-09"}},
			},
		}
		matches := []domain.ManifestMatch{
			{
				Status:     domain.ManifestMatched,
				PairID:     "Pair_000001_1234567_0124",
				Zone:       "Zone A",
				Facility:   "Convent",
				ArriveTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				DepartTime: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			},
			{Status: domain.ManifestNotMatched},
		}

		path, err := w.WriteMatchedManifest(dir, mf, matches)
		require.NoError(t, err)
		assert.Equal(t, "riverdata_v1.1_20240301_120000.csv", filepath.Base(path))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, []string{
			"Vessel", "Vessel IMO", "Arrival Date",
			"PairID", "Zone", "Facility", "Type", "ArriveTime", "DepartTime", "MatchStatus",
		}, records[0])
		assert.Equal(t, "Pair_000001_1234567_0124", records[1][3])
		assert.Equal(t, "2024-01-01 00:00:00", records[1][7])
		assert.Equal(t, "Matched", records[1][9])
		assert.Equal(t, "", records[2][3])
		assert.Equal(t, "Not Matched", records[2][9])
	})

	t.Run("partial runs write only processed rows", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriterWithClock(frozen)

		mf := &ManifestFile{
			Columns: []string{"Vessel", "Vessel IMO", "Arrival Date"},
			Rows: []domain.ManifestRecord{
				{Fields: []string{"River Queen", "1234567", "2024-01-02"}},
				{Fields: []string{"Delta Star", "7654321", "2024-01-09"}},
			},
		}
		matches := []domain.ManifestMatch{{Status: domain.ManifestNotMatched}}

		path, err := w.WriteMatchedManifest(dir, mf, matches)
		require.NoError(t, err)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 2) // header + one processed row
	})

	t.Run("version bumps instead of overwriting", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriterWithClock(frozen)
		mf := &ManifestFile{Columns: []string{"Vessel", "Vessel IMO", "Arrival Date"}}

		first, err := w.WriteMatchedManifest(dir, mf, nil)
		require.NoError(t, err)
		second, err := w.WriteMatchedManifest(dir, mf, nil)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Equal(t, "riverdata_v1.2_20240301_120000.csv", filepath.Base(second))
	})

	t.Run("writes interval export", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriterWithClock(frozen)

		intervals := []domain.EnrichedInterval{
			{
				EventInterval: domain.EventInterval{
					PairID:     "Pair_000001_1234567_0124",
					IMO:        "1234567",
					Name:       "RIVER QUEEN",
					Zone:       "Zone A",
					ArriveTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					Status:     domain.StatusMismatchArrive,
					SourceFile: "feed.csv",
				},
				Facility:     "Convent",
				FacilityType: "Berth",
			},
		}

		path, err := w.WriteIntervals(dir, intervals)
		require.NoError(t, err)
		assert.Equal(t, "merged_aligned_v1.1_20240301_120000.csv", filepath.Base(path))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, IntervalColumns, records[0])
		assert.Equal(t, "Mismatch_Arrive", records[1][11])
		assert.Equal(t, "", records[1][9]) // open interval, no depart time
	})
}
