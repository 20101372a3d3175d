package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsd3/rivercall/internal/adapter/csvfile"
)

// mockZone is one berth-dictionary row plus the river mile used in feeds.
type mockZone struct {
	zone     string
	facility string
	kind     string
	mile     string
}

var mockZones = []mockZone{
	{"Convent Marine Terminal", "Convent", "Berth", "160.1"},
	{"St. James Anchorage", "St. James", "Anchorage", "158.0"},
	{"Ama Anchorage", "Ama", "Anchorage", "115.2"},
	{"Destrehan Dock 1", "Destrehan", "Berth", "120.6"},
	{"Reserve Grain Elevator", "Reserve", "Berth", "138.7"},
	{"Pilottown", "Pilottown", "Pilot Station", "1.5"},
	{"Ninemile Point Terminal", "Ninemile Point", "Berth", "98.3"},
}

var mockNames = []string{
	"RIVER QUEEN", "DELTA STAR", "GULF TRADER", "CRESCENT MOON",
	"BATON PEARL", "MAGNOLIA SPIRIT", "ATCHAFALAYA", "PELICAN PRIDE",
	"LEVEE RUNNER", "BAYOU BELLE", "CYPRESS KING", "MUDDY WATERS",
}

func genmockCmd() *cobra.Command {
	var (
		outDir  string
		vessels int
		weeks   int
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "genmock",
		Short: "Generate a deterministic mock input set",
		Long: `genmock writes a complete, internally consistent input set under the
output directory: two movement feed CSVs, a berth dictionary, and a trade
manifest whose rows reference the generated stays. The same seed always
produces the same files, so test assertions stay stable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if vessels > len(mockNames) {
				return fmt.Errorf("at most %d vessels supported", len(mockNames))
			}
			return generateMock(outDir, vessels, weeks, seed)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "testdata/mock", "output directory")
	cmd.Flags().IntVar(&vessels, "vessels", 8, "number of vessels in the fleet")
	cmd.Flags().IntVar(&weeks, "weeks", 4, "weeks of movement activity")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}

type mockVessel struct {
	imo  string
	name string
}

func generateMock(outDir string, vessels, weeks int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	fleet := make([]mockVessel, vessels)
	for i := range fleet {
		fleet[i] = mockVessel{
			imo:  strconv.Itoa(9100000 + rng.Intn(900000)),
			name: mockNames[i],
		}
	}

	inputDir := filepath.Join(outDir, "input")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		return err
	}

	feedRows, manifestRows := buildMockRows(rng, fleet, weeks, base)

	// Split the feed across two vendor files so dir-merge behavior is covered.
	half := len(feedRows) / 2
	if err := writeMockCSV(filepath.Join(inputDir, "feed_vendor_a.csv"), csvfile.MovementColumns, feedRows[:half]); err != nil {
		return err
	}
	if err := writeMockCSV(filepath.Join(inputDir, "feed_vendor_b.csv"), csvfile.MovementColumns, feedRows[half:]); err != nil {
		return err
	}

	dictRows := make([][]string, 0, len(mockZones))
	for _, z := range mockZones {
		dictRows = append(dictRows, []string{z.zone, z.facility, z.kind})
	}
	if err := writeMockCSV(filepath.Join(outDir, "berthdictionary.csv"), csvfile.DictionaryColumns, dictRows); err != nil {
		return err
	}

	manifestHeader := []string{"Shipper", "Vessel", "Vessel IMO", "Arrival Date", "Cargo"}
	if err := writeMockCSV(filepath.Join(outDir, "manifest.csv"), manifestHeader, manifestRows); err != nil {
		return err
	}

	fmt.Printf("wrote %d movement events, %d dictionary entries, %d manifest rows under %s\n",
		len(feedRows), len(dictRows), len(manifestRows), outDir)
	return nil
}

// buildMockRows simulates stays for each vessel and derives manifest rows from
// a subset of them. Some stays are left open and some manifest rows point at
// vessels with no stay, so every matcher outcome appears in the fixture.
func buildMockRows(rng *rand.Rand, fleet []mockVessel, weeks int, base time.Time) (feed, manifest [][]string) {
	shippers := []string{"Acme Grain", "Delta Export", "Crescent Trading", "Gulf Commodities"}
	cargos := []string{"Grain", "Coal", "Crude", "Containers", "Fertilizer"}

	for vi, v := range fleet {
		cursor := base.Add(time.Duration(rng.Intn(72)) * time.Hour)
		horizon := base.Add(time.Duration(weeks) * 7 * 24 * time.Hour)

		for cursor.Before(horizon) {
			z := mockZones[rng.Intn(len(mockZones))]
			arrive := cursor
			stay := time.Duration(8+rng.Intn(72)) * time.Hour
			depart := arrive.Add(stay)

			feed = append(feed, movementRow(v, z, "arrive", arrive))
			// One stay in ten stays open: the depart never made it into the feed.
			if rng.Intn(10) != 0 {
				feed = append(feed, movementRow(v, z, "depart", depart))
			}

			// Berth stays seed manifest rows; arrival dates wobble around the
			// stay start, occasionally as a spreadsheet serial number.
			if z.kind == "Berth" && rng.Intn(3) == 0 {
				arrival := arrive.Add(time.Duration(rng.Intn(96)-48) * time.Hour)
				dateStr := arrival.Format("2006-01-02")
				if rng.Intn(5) == 0 {
					dateStr = strconv.Itoa(serialDay(arrival))
				}
				imo := v.imo
				if rng.Intn(6) == 0 {
					imo = "" // force the name-fallback path
				}
				manifest = append(manifest, []string{
					shippers[rng.Intn(len(shippers))],
					v.name,
					imo,
					dateStr,
					cargos[rng.Intn(len(cargos))],
				})
			}

			cursor = depart.Add(time.Duration(6+rng.Intn(96)) * time.Hour)
		}

		// Every third vessel also crosses the seaward pilot boundary once.
		if vi%3 == 0 {
			feed = append(feed, []string{
				v.imo, v.name, "SWP Cross", "enter",
				base.Add(time.Duration(vi*30) * time.Hour).Format("2006-01-02 15:04:05"),
				"", "Bulk", strconv.Itoa(30 + rng.Intn(15)), "0",
			})
		}
	}

	// A couple of rows no stay can satisfy.
	manifest = append(manifest,
		[]string{"Acme Grain", "GHOST SHIP", "1000001", base.Format("2006-01-02"), "Grain"},
		[]string{"Delta Export", "", "", base.Format("2006-01-02"), "Coal"},
	)
	return feed, manifest
}

func movementRow(v mockVessel, z mockZone, action string, t time.Time) []string {
	return []string{
		v.imo, v.name, z.zone, action,
		t.Format("2006-01-02 15:04:05"),
		"Harbor Services", "Bulk", "32", z.mile,
	}
}

// serialDay converts a time to the spreadsheet day number some manifest
// exports use for dates.
func serialDay(t time.Time) int {
	epoch := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(epoch).Hours() / 24)
}

func writeMockCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
