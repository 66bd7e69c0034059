package pipeline

import (
	"context"
	"fmt"

	"github.com/catchmentlab/weap-export/internal/align"
	"github.com/catchmentlab/weap-export/internal/domain"
	"github.com/catchmentlab/weap-export/internal/weap"
)

// StationDataset exports per-station time series — streamflow gauges (hydro)
// or weather stations (meteo), which share the same shape: stations ×
// variables over a caller-supplied calibration window. One output file per
// variable, named <dataset>_<variable>.csv.
type StationDataset struct {
	DatasetName string
	Series      []domain.TimeSeries // all stations, all variables, load order preserved
	Window      domain.DateRange
	SkippedRows int // audit trail from the loaders
}

func (d StationDataset) Name() string { return d.DatasetName }

// Export aligns each variable's series onto the window and writes its WEAP
// file. An all-missing station column is valid output, logged at WARN and
// left for the visualizer to flag.
func (d StationDataset) Export(ctx context.Context, run *Run) error {
	if d.SkippedRows > 0 {
		run.Logger.Warn("input rows skipped during load", "dataset", d.DatasetName, "rows", d.SkippedRows)
		run.Metrics.RowsSkipped.Add(float64(d.SkippedRows))
	}

	for _, variable := range d.variables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.exportVariable(variable, run); err != nil {
			return fmt.Errorf("dataset %s, variable %s: %w", d.DatasetName, variable, err)
		}
	}
	return nil
}

func (d StationDataset) exportVariable(variable string, run *Run) error {
	series := d.seriesFor(variable)

	aligned, err := align.Align(series, d.Window)
	if err != nil {
		return err
	}

	if missing := aligned.MissingCount(); missing > 0 {
		run.Metrics.MissingValues.Add(float64(missing))
		for i, s := range series {
			if columnAllMissing(aligned, i) {
				run.Logger.Warn("station has no observations in window",
					"dataset", d.DatasetName, "variable", variable, "station", s.Station)
			}
		}
	}

	table, err := buildAlignedTable(aligned)
	if err != nil {
		return err
	}

	path := run.Dest.Path(fmt.Sprintf("%s_%s.csv", d.DatasetName, variable))
	if err := weap.ExportFile(path, table); err != nil {
		return err
	}

	run.Metrics.FilesWritten.Inc()
	run.Metrics.RowsExported.WithLabelValues(d.DatasetName).Add(float64(len(table.Cells)))
	run.Logger.Info("weap file written", "path", path, "rows", len(table.Cells), "stations", len(series))
	return nil
}

// variables lists the distinct variables in load order.
func (d StationDataset) variables() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range d.Series {
		if !seen[s.Variable] {
			seen[s.Variable] = true
			out = append(out, s.Variable)
		}
	}
	return out
}

func (d StationDataset) seriesFor(variable string) []domain.TimeSeries {
	var out []domain.TimeSeries
	for _, s := range d.Series {
		if s.Variable == variable {
			out = append(out, s)
		}
	}
	return out
}

func columnAllMissing(t align.Table, col int) bool {
	for _, row := range t.Rows {
		if row.Values[col].Valid {
			return false
		}
	}
	return true
}

// buildAlignedTable converts an aligned table into the export entity: a Date
// key column plus one column per station.
func buildAlignedTable(t align.Table) (weap.Table, error) {
	columns := append([]string{weap.DateColumn}, t.Columns...)
	rows := make([]weap.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := weap.Row{weap.DateColumn: domain.FormatDate(r.Date)}
		for i, col := range t.Columns {
			row[col] = weap.FormatValue(r.Values[i])
		}
		rows = append(rows, row)
	}
	return weap.BuildTable("", columns, rows)
}
