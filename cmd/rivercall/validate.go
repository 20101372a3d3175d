package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wsd3/rivercall/internal/adapter/csvfile"
	"github.com/wsd3/rivercall/internal/domain"
)

// phase tracks pass/fail for one preflight check.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Preflight the configured input files without running the batch",
		Long: `validate checks every configured input before a run: movement feed
headers, berth dictionary shape, manifest columns, and date parseability.
All problems are reported together rather than stopping at the first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := setup()
			if err != nil {
				return err
			}

			phases := []*phase{
				validateMovementFeeds(cfg.InputDir),
				validateDictionary(cfg.BerthDictionary),
				validateManifest(cfg.Manifest, cfg.DateToleranceDays),
			}

			allPassed := true
			for _, p := range phases {
				status := "PASS"
				if !p.passed() {
					status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
					allPassed = false
				}
				fmt.Printf("  %-40s %s\n", p.name, status)
			}

			for _, p := range phases {
				if p.passed() {
					continue
				}
				fmt.Printf("\n--- %s ---\n", p.name)
				for i, e := range p.errors {
					fmt.Printf("  [%d] %s\n", i+1, e)
				}
			}

			if !allPassed {
				return errors.New("validation failed")
			}
			fmt.Println("\nAll inputs look good.")
			return nil
		},
	}
}

func validateMovementFeeds(dir string) *phase {
	p := &phase{name: "Movement feeds"}

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		p.errorf("scan %s: %v", dir, err)
		return p
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		p.errorf("no CSV files under %s", dir)
		return p
	}

	for _, path := range paths {
		header, rows, err := readHeader(path)
		if err != nil {
			p.errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		reportMissing(p, filepath.Base(path), header, csvfile.MovementColumns)
		if rows == 0 {
			p.errorf("%s: no data rows", filepath.Base(path))
		}
	}
	return p
}

func validateDictionary(path string) *phase {
	p := &phase{name: "Berth dictionary"}

	entries, err := csvfile.ReadBerthDictionary(path)
	if err != nil {
		var missing *csvfile.MissingColumnsError
		if errors.As(err, &missing) {
			p.errorf("%s", missing)
		} else {
			p.errorf("read %s: %v", path, err)
		}
		return p
	}

	dict, duplicates := domain.NewBerthDictionary(entries)
	for _, zone := range duplicates {
		p.errorf("duplicate zone %q (first entry wins at run time)", zone)
	}
	if dict.Len() == 0 {
		p.errorf("dictionary has no usable entries")
	}
	return p
}

func validateManifest(path string, toleranceDays int) *phase {
	p := &phase{name: "Trade manifest"}

	mf, err := csvfile.ReadManifest(path)
	if err != nil {
		var missing *csvfile.MissingColumnsError
		if errors.As(err, &missing) {
			p.errorf("%s", missing)
		} else {
			p.errorf("read %s: %v", path, err)
		}
		return p
	}

	if len(mf.Rows) == 0 {
		p.errorf("manifest has no data rows")
		return p
	}

	unparseable := 0
	for _, row := range mf.Rows {
		if _, ok := domain.ParseFlexibleDate(row.ArrivalDate); !ok {
			unparseable++
		}
	}
	if unparseable > 0 {
		p.errorf("%d of %d rows have unparseable arrival dates (they will be Not Matched)", unparseable, len(mf.Rows))
	}
	if toleranceDays <= 0 {
		p.errorf("date tolerance %d days is not positive", toleranceDays)
	}
	return p
}

// readHeader returns the header row and the data row count of a CSV file.
func readHeader(path string) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(all) == 0 {
		return nil, 0, errors.New("empty file")
	}
	return all[0], len(all) - 1, nil
}

func reportMissing(p *phase, file string, header, required []string) {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		p.errorf("%s: missing columns %s", file, strings.Join(missing, ", "))
	}
}
