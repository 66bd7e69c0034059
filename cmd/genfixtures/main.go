// Command genfixtures writes a self-contained set of sample inputs (station
// CSVs, a SQLite gauge archive, zonal land-use statistics, a ward census, and
// a manifest wired to all of them) so the exporter can be exercised locally
// without real agency data. Values are synthetic but deterministic, so the
// resulting WEAP files are stable across runs. File paths in the manifest are
// relative, so run weapexport from the fixture directory.
//
// Usage:
//
//	genfixtures -dir testdata/fixtures
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/catchmentlab/weap-export/internal/adapter/sqlite"
	"github.com/catchmentlab/weap-export/internal/domain"
)

var windowStart = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

const windowDays = 365

func main() {
	dir := flag.String("dir", "fixtures", "directory to write fixture inputs into")
	flag.Parse()

	if err := run(*dir); err != nil {
		log.Fatal(err)
	}
}

func run(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeStationCSV(filepath.Join(dir, "nayapul_flow.csv"), 1.2, 40); err != nil {
		return err
	}
	if err := writeStationCSV(filepath.Join(dir, "kusma_flow.csv"), 0.8, 25); err != nil {
		return err
	}
	if err := writeArchive(filepath.Join(dir, "gauges.db")); err != nil {
		return err
	}
	if err := writePixels(filepath.Join(dir, "gandaki_pixels.csv")); err != nil {
		return err
	}
	if err := writeCensus(filepath.Join(dir, "pokhara_census.csv")); err != nil {
		return err
	}
	if err := writeStudents(filepath.Join(dir, "pokhara_students.csv")); err != nil {
		return err
	}
	if err := writeManifest(filepath.Join(dir, "manifest.yaml")); err != nil {
		return err
	}

	fmt.Printf("fixtures written to %s\n", dir)
	return nil
}

// writeStationCSV emits a year of daily flow with a seasonal cycle and a
// deliberate gap (days 100-129 missing entirely, every 7th value empty) so
// alignment has something to fill.
func writeStationCSV(path string, base float64, amplitude float64) error {
	var b strings.Builder
	b.WriteString("Date,Value\n")
	for day := 0; day < windowDays; day++ {
		if day >= 100 && day < 130 {
			continue
		}
		date := windowStart.AddDate(0, 0, day)
		if day%7 == 3 {
			fmt.Fprintf(&b, "%s,\n", domain.FormatDate(date))
			continue
		}
		v := base + amplitude*(1+math.Sin(2*math.Pi*float64(day)/365))
		fmt.Fprintf(&b, "%s,%.3f\n", domain.FormatDate(date), v)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// writeArchive builds a SQLite archive with one precipitation series,
// including NULL values on every 11th day.
func writeArchive(path string) error {
	_ = os.Remove(path)
	store, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		return err
	}

	for day := 0; day < windowDays; day++ {
		obs := domain.Observation{Date: windowStart.AddDate(0, 0, day)}
		if day%11 != 0 {
			obs.Value = domain.Number(math.Max(0, 12*math.Sin(2*math.Pi*float64(day)/365)))
		}
		if err := store.Insert(ctx, "Lumle", "Precip", obs); err != nil {
			return err
		}
	}
	return nil
}

func writePixels(path string) error {
	rows := []string{
		"Subcatchment,Class,Pixels",
		"Modi,7,15000",  // cropland
		"Modi,4,42000",  // forest
		"Modi,11,3000",  // other wooded land
		"Modi,10,9000",  // grassland
		"Modi,8,1200",   // bare soil
		"Modi,1,400",    // waterbody
		"Modi,5,350",    // riverbed
		"Modi,6,2100",   // built-up
		"Modi,2,800",    // glacier, dropped on merge
		"Seti,7,22000",
		"Seti,4,31000",
		"Seti,10,14000",
		"Seti,1,900",
		"Seti,6,5400",
	}
	return os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644)
}

func writeCensus(path string) error {
	rows := []string{
		"Ward,Year,Population",
		"Ward-1,2011,12400",
		"Ward-1,2021,15900",
		"Ward-2,2011,8300",
		"Ward-2,2021,11050",
		"Ward-3,2021,6200", // single census year: exercises per-ward skip
	}
	return os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644)
}

func writeStudents(path string) error {
	rows := []string{
		"Ward,Students",
		"Ward-1,5200",
		"Ward-2,3100",
	}
	return os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644)
}

func writeManifest(path string) error {
	manifest := `output_dir: OutputData
log_level: info
log_format: text

hydro:
  - name: Gandaki_Hydro
    window: {start: "2010-01-01", end: "2010-12-31"}
    series:
      - {station: Nayapul, variable: Streamflow, unit: m3/s, file: nayapul_flow.csv}
      - {station: Kusma, variable: Streamflow, unit: m3/s, file: kusma_flow.csv}

meteo:
  - name: Gandaki_Meteo
    window: {start: "2010-01-01", end: "2010-12-31"}
    series:
      - {station: Lumle, variable: Precip, unit: mm, sqlite: gauges.db}

landuse:
  - area: Gandaki
    pixels_file: gandaki_pixels.csv
    raster_resolution_m: 30
    start_year: 2010
    end_year: 2021

demand:
  - municipality: Pokhara
    census_file: pokhara_census.csv
    students_file: pokhara_students.csv
    window: {start: "2010-01-01", end: "2025-12-31"}
    percent_plumbed: 60
    rates:
      institutional: 0.01
      commercial: 0.008
      municipal: 0.004
      industrial: 0.012
`
	return os.WriteFile(path, []byte(manifest), 0o644)
}
