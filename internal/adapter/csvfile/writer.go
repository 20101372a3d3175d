package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wsd3/rivercall/internal/domain"
)

// ResultColumns are appended to the manifest header on output.
var ResultColumns = []string{"PairID", "Zone", "Facility", "Type", "ArriveTime", "DepartTime", "MatchStatus"}

// IntervalColumns is the aligned/enriched interval export header.
var IntervalColumns = []string{
	"PairID", "IMO", "Name", "Zone", "Agent", "Type", "Draft", "Mile",
	"ArriveTime", "DepartTime", "SourceFile", "MatchStatus", "Facility", "FacilityType",
}

const timeLayout = "2006-01-02 15:04:05"

// Writer writes run outputs under versioned filenames so prior runs are never
// overwritten.
type Writer struct {
	clock clockwork.Clock
}

// NewWriter creates a Writer using the real clock.
func NewWriter() *Writer {
	return &Writer{clock: clockwork.NewRealClock()}
}

// NewWriterWithClock creates a Writer with an injected clock for tests.
func NewWriterWithClock(c clockwork.Clock) *Writer {
	return &Writer{clock: c}
}

// WriteMatchedManifest writes the processed manifest rows with the enrichment
// columns appended, to riverdata_v<version>_<timestamp>.csv under dir. Only
// rows the matcher processed are written; a timed-out run therefore produces a
// shorter, still-valid file. Returns the path written.
func (w *Writer) WriteMatchedManifest(dir string, mf *ManifestFile, matches []domain.ManifestMatch) (string, error) {
	path, err := w.versionedPath(dir, "riverdata")
	if err != nil {
		return "", err
	}

	header := append(append([]string{}, mf.Columns...), ResultColumns...)
	rows := make([][]string, 0, len(matches))
	for i, match := range matches {
		base := padRow(mf.Rows[i].Fields, len(mf.Columns))
		rows = append(rows, append(base,
			match.PairID,
			match.Zone,
			match.Facility,
			match.FacilityType,
			formatTime(match.ArriveTime),
			formatTime(match.DepartTime),
			match.Status,
		))
	}

	if err := writeCSV(path, header, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteIntervals exports the enriched interval set, the lookup universe a
// later matcher run can be pointed at.
func (w *Writer) WriteIntervals(dir string, intervals []domain.EnrichedInterval) (string, error) {
	path, err := w.versionedPath(dir, "merged_aligned")
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(intervals))
	for _, iv := range intervals {
		rows = append(rows, []string{
			iv.PairID, iv.IMO, iv.Name, iv.Zone, iv.Agent, iv.VesselType, iv.Draft, iv.Mile,
			formatTime(iv.ArriveTime), formatTime(iv.DepartTime), iv.SourceFile, string(iv.Status),
			iv.Facility, iv.FacilityType,
		})
	}

	if err := writeCSV(path, IntervalColumns, rows); err != nil {
		return "", err
	}
	return path, nil
}

// versionedPath builds <dir>/<base>_v<version>_<timestamp>.csv, bumping the
// version by 0.1 while a file of that name exists. The timestamp alone makes
// collisions unlikely; the version bump guards repeated runs within a second.
func (w *Writer) versionedPath(dir, base string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	stamp := w.clock.Now().Format("20060102_150405")
	version := 1.1
	path := filepath.Join(dir, fmt.Sprintf("%s_v%.1f_%s.csv", base, version, stamp))
	for {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		version += 0.1
		path = filepath.Join(dir, fmt.Sprintf("%s_v%.1f_%s.csv", base, version, stamp))
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// padRow widens a short row to the header width so appended columns line up.
func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
