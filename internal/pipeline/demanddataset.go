package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/catchmentlab/weap-export/internal/demand"
	"github.com/catchmentlab/weap-export/internal/domain"
	"github.com/catchmentlab/weap-export/internal/weap"
)

// demand volumes are exported in cubic metres per day
const demandUnitSuffix = " [m3/d]"

// DemandDataset exports forecast water demand per ward, one file per ward
// named <municipality>_<ward>_Demand.csv. Census records for all wards travel
// together; each ward is forecast independently.
type DemandDataset struct {
	Municipality string
	Censuses     []domain.WardPopulation
	Window       domain.DateRange
	Rates        demand.Rates

	// Students maps ward to student attendance count, when the municipality
	// supplies one; it derives that ward's institutional rate.
	Students map[string]float64
}

func (d DemandDataset) Name() string { return d.Municipality + "_Demand" }

// Export forecasts and writes every ward. A ward with fewer than two distinct
// census years is skipped with an error log and a metric increment — other
// wards continue. Extrapolation warnings are surfaced in the log and counted,
// and the forecast proceeds.
func (d DemandDataset) Export(ctx context.Context, run *Run) error {
	var failures []error
	for _, ward := range d.wards() {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(failures, err)...)
		}

		if err := d.exportWard(ward, run); err != nil {
			var insufficient *domain.InsufficientDataError
			if errors.As(err, &insufficient) {
				run.Logger.Error("ward skipped: insufficient census data",
					"dataset", d.Name(), "ward", ward, "census_years", insufficient.Count)
				run.Metrics.WardsSkipped.Inc()
				failures = append(failures, err)
				continue
			}
			return fmt.Errorf("dataset %s, ward %s: %w", d.Name(), ward, err)
		}
	}
	return errors.Join(failures...)
}

func (d DemandDataset) exportWard(ward string, run *Run) error {
	rates, err := d.wardRates(ward)
	if err != nil {
		return err
	}

	records, warnings, err := demand.Forecast(ward, d.Censuses, d.Window, rates)
	if err != nil {
		return err
	}

	for _, w := range warnings {
		run.Logger.Warn("forecast extrapolated beyond census support", "warning", w.String())
		run.Metrics.ExtrapolationWarnings.Inc()
	}

	table, err := buildDemandTable(records)
	if err != nil {
		return err
	}

	path := run.Dest.Path(fmt.Sprintf("%s_%s_Demand.csv", d.Municipality, ward))
	if err := weap.ExportFile(path, table); err != nil {
		return err
	}

	run.Metrics.FilesWritten.Inc()
	run.Metrics.RowsExported.WithLabelValues(d.Name()).Add(float64(len(table.Cells)))
	run.Logger.Info("weap file written", "path", path, "rows", len(table.Cells), "ward", ward)
	return nil
}

// wardRates returns the dataset rates, with the institutional rate derived
// from the ward's student count against its latest census population when a
// count is supplied.
func (d DemandDataset) wardRates(ward string) (demand.Rates, error) {
	rates := d.Rates
	students, ok := d.Students[ward]
	if !ok {
		return rates, nil
	}

	pop, found := d.latestCensusPopulation(ward)
	if !found {
		// Forecast reports the missing census itself.
		return rates, nil
	}
	institutional, err := demand.InstitutionalRate(students, pop, demand.DefaultStudentRate)
	if err != nil {
		return demand.Rates{}, err
	}
	rates.Institutional = institutional
	return rates, nil
}

func (d DemandDataset) latestCensusPopulation(ward string) (float64, bool) {
	year, pop, found := 0, 0.0, false
	for _, c := range d.Censuses {
		if c.Ward == ward && (!found || c.Year > year) {
			year, pop, found = c.Year, c.Population, true
		}
	}
	return pop, found
}

func (d DemandDataset) wards() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range d.Censuses {
		if !seen[c.Ward] {
			seen[c.Ward] = true
			out = append(out, c.Ward)
		}
	}
	return out
}

// buildDemandTable pivots the per-day record stream into a Date key column
// plus one column per category, Total last.
func buildDemandTable(records []domain.DemandRecord) (weap.Table, error) {
	columns := []string{weap.DateColumn}
	for _, cat := range domain.DemandCategories {
		columns = append(columns, string(cat)+demandUnitSuffix)
	}
	columns = append(columns, string(domain.Total)+demandUnitSuffix)

	var rows []weap.Row
	var current weap.Row
	var currentDate string
	for _, rec := range records {
		day := domain.FormatDate(rec.Date)
		if day != currentDate {
			if current != nil {
				rows = append(rows, current)
			}
			current = weap.Row{weap.DateColumn: day}
			currentDate = day
		}
		current[string(rec.Category)+demandUnitSuffix] = weap.FormatFloat(rec.Volume)
	}
	if current != nil {
		rows = append(rows, current)
	}

	return weap.BuildTable("", columns, rows)
}
