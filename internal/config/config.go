// Package config loads the export manifest: a YAML file describing every
// dataset to export, plus a small set of environment overrides for the
// things that differ between a laptop run and CI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/catchmentlab/weap-export/internal/domain"
)

// Config is the full export manifest.
type Config struct {
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Hydro   []StationDataset `yaml:"hydro"`
	Meteo   []StationDataset `yaml:"meteo"`
	LandUse []LandUse        `yaml:"landuse"`
	Demand  []Demand         `yaml:"demand"`
}

// Window is an inclusive date window in manifest form.
type Window struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// DateRange parses the window into the domain form.
func (w Window) DateRange() (domain.DateRange, error) {
	start, err := domain.ParseDate(w.Start)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("window start: %w", err)
	}
	end, err := domain.ParseDate(w.End)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("window end: %w", err)
	}
	return domain.NewDateRange(start, end)
}

// SeriesSource names one station/variable series and where to read it from:
// a CSV file or a SQLite observation archive, exactly one of the two.
type SeriesSource struct {
	Station  string `yaml:"station"`
	Variable string `yaml:"variable"`
	Unit     string `yaml:"unit"`
	File     string `yaml:"file"`
	SQLite   string `yaml:"sqlite"`
}

// StationDataset configures one hydro or meteo dataset.
type StationDataset struct {
	Name   string         `yaml:"name"`
	Window Window         `yaml:"window"`
	Series []SeriesSource `yaml:"series"`
}

// LandUse configures one study area's land-use export.
type LandUse struct {
	Area              string  `yaml:"area"`
	PixelsFile        string  `yaml:"pixels_file"`
	RasterResolutionM float64 `yaml:"raster_resolution_m"`
	StartYear         int     `yaml:"start_year"`
	EndYear           int     `yaml:"end_year"`
}

// Rates are per-capita daily demand rates in m3/person/day. Total is never
// configured; it is recomputed at forecast time.
type Rates struct {
	Domestic      float64 `yaml:"domestic"`
	Institutional float64 `yaml:"institutional"`
	Commercial    float64 `yaml:"commercial"`
	Municipal     float64 `yaml:"municipal"`
	Industrial    float64 `yaml:"industrial"`
}

// Demand configures one municipality's demand forecast.
type Demand struct {
	Municipality string `yaml:"municipality"`
	CensusFile   string `yaml:"census_file"`
	Window       Window `yaml:"window"`
	Rates        Rates  `yaml:"rates"`

	// StudentsFile, when set, supplies per-ward student attendance counts;
	// each listed ward's institutional rate is derived from them instead of
	// rates.institutional.
	StudentsFile string `yaml:"students_file"`

	// PercentPlumbed, when set, derives the domestic rate from the plumbed/
	// unplumbed household split instead of rates.domestic.
	PercentPlumbed *int `yaml:"percent_plumbed"`
}

// Load reads and validates the manifest at path, then applies environment
// overrides (WEAPEXPORT_OUTPUT_DIR, LOG_LEVEL, LOG_FORMAT).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	cfg := &Config{
		OutputDir: "OutputData",
		LogLevel:  "info",
		LogFormat: "json",
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if v := os.Getenv("WEAPEXPORT_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}

	for i, ds := range c.Hydro {
		if err := validateStationDataset(ds); err != nil {
			return fmt.Errorf("hydro[%d]: %w", i, err)
		}
	}
	for i, ds := range c.Meteo {
		if err := validateStationDataset(ds); err != nil {
			return fmt.Errorf("meteo[%d]: %w", i, err)
		}
	}
	for i, lu := range c.LandUse {
		if lu.Area == "" {
			return fmt.Errorf("landuse[%d]: area is required", i)
		}
		if lu.PixelsFile == "" {
			return fmt.Errorf("landuse[%d]: pixels_file is required", i)
		}
		if lu.EndYear < lu.StartYear {
			return fmt.Errorf("landuse[%d]: end_year %d before start_year %d", i, lu.EndYear, lu.StartYear)
		}
	}
	for i, dm := range c.Demand {
		if dm.Municipality == "" {
			return fmt.Errorf("demand[%d]: municipality is required", i)
		}
		if dm.CensusFile == "" {
			return fmt.Errorf("demand[%d]: census_file is required", i)
		}
		if _, err := dm.Window.DateRange(); err != nil {
			return fmt.Errorf("demand[%d]: %w", i, err)
		}
		if p := dm.PercentPlumbed; p != nil && (*p < 0 || *p > 100) {
			return fmt.Errorf("demand[%d]: percent_plumbed must be in [0,100], got %d", i, *p)
		}
	}
	return nil
}

func validateStationDataset(ds StationDataset) error {
	if ds.Name == "" {
		return errors.New("name is required")
	}
	if _, err := ds.Window.DateRange(); err != nil {
		return err
	}
	if len(ds.Series) == 0 {
		return errors.New("at least one series is required")
	}
	for i, s := range ds.Series {
		if s.Station == "" || s.Variable == "" {
			return fmt.Errorf("series[%d]: station and variable are required", i)
		}
		if (s.File == "") == (s.SQLite == "") {
			return fmt.Errorf("series[%d] (%s/%s): exactly one of file or sqlite is required",
				i, s.Station, s.Variable)
		}
	}
	return nil
}

// RasterResolution returns the configured resolution, defaulting to the 30 m
// ICIMOD product.
func (l LandUse) RasterResolution() float64 {
	if l.RasterResolutionM <= 0 {
		return 30
	}
	return l.RasterResolutionM
}
