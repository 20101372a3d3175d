// Package csvfile reads the three tabular inputs (movement-event feeds, berth
// dictionary, trade manifest) and writes the run outputs. Missing required
// columns are fatal before any processing; unreadable files and malformed rows
// are skipped and reported, never fatal.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// MissingColumnsError reports every required column a file lacks, so a
// preflight check can surface them all at once.
type MissingColumnsError struct {
	File    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Columns, ", "))
}

// columnIndex maps required column names to their positions in the header,
// returning a MissingColumnsError naming every absent column.
func columnIndex(file string, header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{File: file, Columns: missing}
	}
	return idx, nil
}

// field returns the named column's value from a row, tolerating short rows.
func field(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// newReader configures a csv.Reader for the vendor exports: variable-length
// rows are tolerated and validated per field by the callers.
func newReader(f io.Reader) *csv.Reader {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r
}
