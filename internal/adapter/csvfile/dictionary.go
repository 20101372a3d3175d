package csvfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wsd3/rivercall/internal/domain"
)

// DictionaryColumns are required in the berth dictionary file.
var DictionaryColumns = []string{"Zone", "Facility", "Type"}

// ReadBerthDictionary parses the facility reference file. One row per
// canonical facility; duplicate-key resolution happens downstream in
// domain.NewBerthDictionary.
func ReadBerthDictionary(path string) ([]domain.BerthDictionaryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open berth dictionary: %w", err)
	}
	defer f.Close()

	r := newReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	idx, err := columnIndex(filepath.Base(path), header, DictionaryColumns)
	if err != nil {
		return nil, err
	}

	var entries []domain.BerthDictionaryEntry
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		entries = append(entries, domain.BerthDictionaryEntry{
			Zone:     field(row, idx, "Zone"),
			Facility: field(row, idx, "Facility"),
			Type:     field(row, idx, "Type"),
		})
	}
	return entries, nil
}
