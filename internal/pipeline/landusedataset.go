package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/catchmentlab/weap-export/internal/domain"
	"github.com/catchmentlab/weap-export/internal/landuse"
	"github.com/catchmentlab/weap-export/internal/weap"
)

// LandUseDataset exports one year-replicated file per subcatchment, named
// <area>_<subcatchment>_LULC_Areas.csv.
type LandUseDataset struct {
	Area          string // study area name, leads the output file names
	Subcatchments []domain.SubcatchmentAreas
	StartYear     int
	EndYear       int
}

func (d LandUseDataset) Name() string { return d.Area + "_LULC" }

// Export writes every subcatchment's file. A failed subcatchment is skipped
// and counted; the rest still export. An inverted year range aborts the whole
// dataset before any file is written.
func (d LandUseDataset) Export(ctx context.Context, run *Run) error {
	years, err := landuse.YearRange(d.StartYear, d.EndYear)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", d.Name(), err)
	}

	var failures []error
	for _, sub := range d.Subcatchments {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(failures, err)...)
		}

		if err := d.exportSubcatchment(sub, years, run); err != nil {
			run.Logger.Error("subcatchment export failed, skipping",
				"dataset", d.Name(), "subcatchment", sub.Name, "error", err)
			run.Metrics.ExportErrors.Inc()
			failures = append(failures, fmt.Errorf("subcatchment %s: %w", sub.Name, err))
		}
	}
	return errors.Join(failures...)
}

func (d LandUseDataset) exportSubcatchment(sub domain.SubcatchmentAreas, years []int, run *Run) error {
	table, err := landuse.Replicate(sub, years)
	if err != nil {
		return err
	}

	path := run.Dest.Path(fmt.Sprintf("%s_%s_LULC_Areas.csv", d.Area, sub.Name))
	if err := weap.ExportFile(path, table); err != nil {
		return err
	}

	run.Metrics.FilesWritten.Inc()
	run.Metrics.RowsExported.WithLabelValues(d.Name()).Add(float64(len(table.Cells)))
	run.Logger.Info("weap file written", "path", path, "rows", len(table.Cells))
	return nil
}
