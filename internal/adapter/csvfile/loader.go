// Package csvfile reads the plain-CSV renditions of the upstream spreadsheet
// and zonal-statistics deliveries. Parse failures are reported distinctly
// from legitimately absent values: a row whose date or number does not parse
// is skipped and counted, while an empty value field becomes the
// missing-value marker.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/catchmentlab/weap-export/internal/domain"
)

// StationSeries reads one station's observations from a Date,Value CSV.
// Returns the series and the number of rows skipped for unparseable dates or
// values (the audit trail). Rows may arrive unsorted; duplicate dates are a
// SchemaError.
func StationSeries(path, station, variable, unit string) (domain.TimeSeries, int, error) {
	rows, err := readAll(path)
	if err != nil {
		return domain.TimeSeries{}, 0, err
	}
	if err := expectHeader(rows, path, "Date", "Value"); err != nil {
		return domain.TimeSeries{}, 0, err
	}

	var points []domain.Observation
	skipped := 0
	for _, row := range rows[1:] {
		if len(row) != 2 {
			skipped++
			continue
		}
		date, err := domain.ParseDate(row[0])
		if err != nil {
			skipped++
			continue
		}

		cell := strings.TrimSpace(row[1])
		if cell == "" {
			points = append(points, domain.Observation{Date: date})
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			skipped++
			continue
		}
		points = append(points, domain.Observation{Date: date, Value: domain.Number(v)})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	series, err := domain.NewTimeSeries(station, variable, unit, points)
	if err != nil {
		return domain.TimeSeries{}, skipped, fmt.Errorf("%s: %w", path, err)
	}
	return series, skipped, nil
}

// WardCensus reads Ward,Year,Population rows. Unparseable rows are skipped
// and counted.
func WardCensus(path string) ([]domain.WardPopulation, int, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, 0, err
	}
	if err := expectHeader(rows, path, "Ward", "Year", "Population"); err != nil {
		return nil, 0, err
	}

	var out []domain.WardPopulation
	skipped := 0
	for _, row := range rows[1:] {
		if len(row) != 3 {
			skipped++
			continue
		}
		year, errY := strconv.Atoi(strings.TrimSpace(row[1]))
		pop, errP := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		ward := strings.TrimSpace(row[0])
		if ward == "" || errY != nil || errP != nil {
			skipped++
			continue
		}
		out = append(out, domain.WardPopulation{Ward: ward, Year: year, Population: pop})
	}
	return out, skipped, nil
}

// SubcatchmentPixels reads long-form Subcatchment,Class,Pixels rows into
// per-subcatchment ICIMOD pixel counts, preserving first-seen subcatchment
// order for deterministic output file ordering.
func SubcatchmentPixels(path string) (names []string, pixels map[string]map[int]int, skipped int, err error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, nil, 0, err
	}
	if err := expectHeader(rows, path, "Subcatchment", "Class", "Pixels"); err != nil {
		return nil, nil, 0, err
	}

	pixels = make(map[string]map[int]int)
	for _, row := range rows[1:] {
		if len(row) != 3 {
			skipped++
			continue
		}
		name := strings.TrimSpace(row[0])
		class, errC := strconv.Atoi(strings.TrimSpace(row[1]))
		count, errN := strconv.Atoi(strings.TrimSpace(row[2]))
		if name == "" || errC != nil || errN != nil {
			skipped++
			continue
		}
		if _, ok := pixels[name]; !ok {
			pixels[name] = make(map[int]int)
			names = append(names, name)
		}
		pixels[name][class] += count
	}
	return names, pixels, skipped, nil
}

// WardStudents reads Ward,Students rows: the attendance counts the
// institutional demand rate derives from. Unparseable rows are skipped and
// counted.
func WardStudents(path string) (map[string]float64, int, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, 0, err
	}
	if err := expectHeader(rows, path, "Ward", "Students"); err != nil {
		return nil, 0, err
	}

	out := make(map[string]float64)
	skipped := 0
	for _, row := range rows[1:] {
		if len(row) != 2 {
			skipped++
			continue
		}
		ward := strings.TrimSpace(row[0])
		count, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if ward == "" || err != nil || count < 0 {
			skipped++
			continue
		}
		out[ward] = count
	}
	return out, skipped, nil
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	// Ragged rows reach the per-loader skip-and-count path instead of
	// aborting the file.
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s: empty file", path)
	}
	return rows, nil
}

func expectHeader(rows [][]string, path string, want ...string) error {
	header := rows[0]
	if len(header) != len(want) {
		return fmt.Errorf("%s: header has %d columns, want %d", path, len(header), len(want))
	}
	for i, col := range want {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return fmt.Errorf("%s: header column %d is %q, want %q", path, i, header[i], col)
		}
	}
	return nil
}
