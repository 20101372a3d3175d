package csvfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wsd3/rivercall/internal/domain"
)

// ManifestColumns are the minimum required manifest columns; everything else
// is passed through untouched.
var ManifestColumns = []string{"Vessel", "Vessel IMO", "Arrival Date"}

// ManifestFile is a parsed trade manifest: the header in input order plus all
// rows. Pass-through columns live in each record's Fields slice.
type ManifestFile struct {
	Columns []string
	Rows    []domain.ManifestRecord
}

// ReadManifest parses the trade-manifest file. A missing required column is a
// fatal validation error reported with every absent column named.
func ReadManifest(path string) (*ManifestFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	r := newReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	idx, err := columnIndex(filepath.Base(path), header, ManifestColumns)
	if err != nil {
		return nil, err
	}

	mf := &ManifestFile{Columns: header}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		mf.Rows = append(mf.Rows, domain.ManifestRecord{
			Vessel:      field(row, idx, "Vessel"),
			VesselIMO:   field(row, idx, "Vessel IMO"),
			ArrivalDate: field(row, idx, "Arrival Date"),
			Fields:      row,
		})
	}
	return mf, nil
}
