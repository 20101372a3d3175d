package csvfile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wsd3/rivercall/internal/domain"
)

// MovementColumns are required in every movement-event feed file.
var MovementColumns = []string{"IMO", "Name", "Zone", "Action", "Time", "Agent", "Type", "Draft", "Mile"}

// ReadMovementDir loads every .csv file in dir, in filename order, into one
// combined event stream. A file missing required columns aborts the run; a
// file that cannot be opened or parsed is logged and skipped. An empty
// directory yields an empty stream, not an error.
func ReadMovementDir(dir string, logger *slog.Logger) ([]domain.RawMovementEvent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var events []domain.RawMovementEvent
	for _, name := range files {
		fileEvents, err := ReadMovementFile(filepath.Join(dir, name))
		if err != nil {
			var missing *MissingColumnsError
			if errors.As(err, &missing) {
				return nil, err
			}
			logger.Warn("skipping unreadable movement file", "file", name, "error", err)
			continue
		}
		logger.Info("loaded movement file", "file", name, "rows", len(fileEvents))
		events = append(events, fileEvents...)
	}
	return events, nil
}

// ReadMovementFile parses one movement-event feed. SourceFile on every event
// is the file's base name. Timestamps that do not parse are carried as zero
// times for the aligner to classify.
func ReadMovementFile(path string) ([]domain.RawMovementEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open movement file: %w", err)
	}
	defer f.Close()

	r := newReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	idx, err := columnIndex(filepath.Base(path), header, MovementColumns)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	var events []domain.RawMovementEvent
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		ev := domain.RawMovementEvent{
			IMO:        field(row, idx, "IMO"),
			Name:       field(row, idx, "Name"),
			Zone:       field(row, idx, "Zone"),
			Action:     field(row, idx, "Action"),
			Agent:      field(row, idx, "Agent"),
			VesselType: field(row, idx, "Type"),
			Draft:      field(row, idx, "Draft"),
			Mile:       field(row, idx, "Mile"),
			SourceFile: source,
		}
		if t, ok := domain.ParseFlexibleDate(field(row, idx, "Time")); ok {
			ev.Time = t
		}
		events = append(events, ev)
	}
	return events, nil
}
