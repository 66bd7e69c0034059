package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/catchmentlab/weap-export/internal/adapter/csvfile"
	"github.com/catchmentlab/weap-export/internal/adapter/sqlite"
	"github.com/catchmentlab/weap-export/internal/config"
	"github.com/catchmentlab/weap-export/internal/demand"
	"github.com/catchmentlab/weap-export/internal/domain"
	"github.com/catchmentlab/weap-export/internal/landuse"
	"github.com/catchmentlab/weap-export/internal/pipeline"
)

// buildDatasets turns the manifest into loaded, immutable dataset values.
// All input reading happens here; the pipeline then runs on in-memory tables
// only.
func buildDatasets(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]pipeline.Dataset, error) {
	var datasets []pipeline.Dataset

	for _, sd := range cfg.Hydro {
		ds, err := loadStationDataset(ctx, sd)
		if err != nil {
			return nil, fmt.Errorf("hydro dataset %s: %w", sd.Name, err)
		}
		datasets = append(datasets, ds)
	}
	for _, sd := range cfg.Meteo {
		ds, err := loadStationDataset(ctx, sd)
		if err != nil {
			return nil, fmt.Errorf("meteo dataset %s: %w", sd.Name, err)
		}
		datasets = append(datasets, ds)
	}

	for _, lu := range cfg.LandUse {
		ds, err := loadLandUseDataset(lu, logger)
		if err != nil {
			return nil, fmt.Errorf("landuse dataset %s: %w", lu.Area, err)
		}
		datasets = append(datasets, ds)
	}

	for _, dm := range cfg.Demand {
		ds, err := loadDemandDataset(dm, logger)
		if err != nil {
			return nil, fmt.Errorf("demand dataset %s: %w", dm.Municipality, err)
		}
		datasets = append(datasets, ds)
	}

	return datasets, nil
}

func loadStationDataset(ctx context.Context, sd config.StationDataset) (pipeline.StationDataset, error) {
	window, err := sd.Window.DateRange()
	if err != nil {
		return pipeline.StationDataset{}, err
	}

	var series []domain.TimeSeries
	totalSkipped := 0
	for _, src := range sd.Series {
		s, skipped, err := loadSeries(ctx, src)
		if err != nil {
			return pipeline.StationDataset{}, fmt.Errorf("series %s/%s: %w", src.Station, src.Variable, err)
		}
		totalSkipped += skipped
		series = append(series, s)
	}

	return pipeline.StationDataset{
		DatasetName: sd.Name,
		Series:      series,
		Window:      window,
		SkippedRows: totalSkipped,
	}, nil
}

func loadSeries(ctx context.Context, src config.SeriesSource) (domain.TimeSeries, int, error) {
	if src.File != "" {
		return csvfile.StationSeries(src.File, src.Station, src.Variable, src.Unit)
	}

	store, err := sqlite.Open(src.SQLite)
	if err != nil {
		return domain.TimeSeries{}, 0, err
	}
	defer store.Close()
	return store.SeriesFor(ctx, src.Station, src.Variable, src.Unit)
}

func loadLandUseDataset(lu config.LandUse, logger *slog.Logger) (pipeline.LandUseDataset, error) {
	names, pixels, skipped, err := csvfile.SubcatchmentPixels(lu.PixelsFile)
	if err != nil {
		return pipeline.LandUseDataset{}, err
	}
	if skipped > 0 {
		logger.Warn("zonal statistics rows skipped during load", "area", lu.Area, "rows", skipped)
	}

	subs := make([]domain.SubcatchmentAreas, 0, len(names))
	for _, name := range names {
		subs = append(subs, domain.SubcatchmentAreas{
			Name:  name,
			Areas: landuse.MergeClasses(pixels[name], lu.RasterResolution()),
		})
	}

	return pipeline.LandUseDataset{
		Area:          lu.Area,
		Subcatchments: subs,
		StartYear:     lu.StartYear,
		EndYear:       lu.EndYear,
	}, nil
}

func loadDemandDataset(dm config.Demand, logger *slog.Logger) (pipeline.DemandDataset, error) {
	window, err := dm.Window.DateRange()
	if err != nil {
		return pipeline.DemandDataset{}, err
	}

	censuses, skipped, err := csvfile.WardCensus(dm.CensusFile)
	if err != nil {
		return pipeline.DemandDataset{}, err
	}
	if skipped > 0 {
		logger.Warn("census rows skipped during load", "municipality", dm.Municipality, "rows", skipped)
	}

	var students map[string]float64
	if dm.StudentsFile != "" {
		var studentsSkipped int
		students, studentsSkipped, err = csvfile.WardStudents(dm.StudentsFile)
		if err != nil {
			return pipeline.DemandDataset{}, err
		}
		if studentsSkipped > 0 {
			logger.Warn("student count rows skipped during load",
				"municipality", dm.Municipality, "rows", studentsSkipped)
		}
	}

	rates := demand.Rates{
		Domestic:      dm.Rates.Domestic,
		Institutional: dm.Rates.Institutional,
		Commercial:    dm.Rates.Commercial,
		Municipal:     dm.Rates.Municipal,
		Industrial:    dm.Rates.Industrial,
	}
	if dm.PercentPlumbed != nil {
		domestic, err := demand.DomesticRate(*dm.PercentPlumbed,
			demand.DefaultPlumbedHomeRate, demand.DefaultUnplumbedHomeRate)
		if err != nil {
			return pipeline.DemandDataset{}, err
		}
		rates.Domestic = domestic
	}

	return pipeline.DemandDataset{
		Municipality: dm.Municipality,
		Censuses:     censuses,
		Window:       window,
		Rates:        rates,
		Students:     students,
	}, nil
}
