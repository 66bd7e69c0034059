package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validManifest = `
output_dir: out
hydro:
  - name: Gandaki
    window: {start: "2010-01-01", end: "2010-12-31"}
    series:
      - {station: Nayapul, variable: Streamflow, unit: m3/s, file: nayapul.csv}
      - {station: Lumle, variable: Streamflow, sqlite: gauges.db}
landuse:
  - area: Gandaki
    pixels_file: pixels.csv
    start_year: 2010
    end_year: 2021
demand:
  - municipality: Pokhara
    census_file: census.csv
    students_file: students.csv
    window: {start: "2010-01-01", end: "2025-12-31"}
    percent_plumbed: 60
    rates: {institutional: 0.01}
`

func TestLoad(t *testing.T) {
	t.Run("valid manifest with defaults", func(t *testing.T) {
		cfg, err := Load(writeManifest(t, validManifest))
		require.NoError(t, err)

		assert.Equal(t, "out", cfg.OutputDir)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)

		require.Len(t, cfg.Hydro, 1)
		assert.Equal(t, "Gandaki", cfg.Hydro[0].Name)
		assert.Equal(t, "gauges.db", cfg.Hydro[0].Series[1].SQLite)

		require.Len(t, cfg.LandUse, 1)
		assert.Equal(t, 30.0, cfg.LandUse[0].RasterResolution(), "resolution defaults to the 30 m product")

		require.Len(t, cfg.Demand, 1)
		require.NotNil(t, cfg.Demand[0].PercentPlumbed)
		assert.Equal(t, 60, *cfg.Demand[0].PercentPlumbed)
		assert.Equal(t, "students.csv", cfg.Demand[0].StudentsFile)
	})

	t.Run("window parses", func(t *testing.T) {
		cfg, err := Load(writeManifest(t, validManifest))
		require.NoError(t, err)

		r, err := cfg.Hydro[0].Window.DateRange()
		require.NoError(t, err)
		assert.Equal(t, 365, r.Days())
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("WEAPEXPORT_OUTPUT_DIR", "/tmp/elsewhere")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "text")

		cfg, err := Load(writeManifest(t, validManifest))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/elsewhere", cfg.OutputDir)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := Load(writeManifest(t, "output_dir: out\nsurprise: true\n"))
		require.Error(t, err)
	})

	t.Run("series needs exactly one source", func(t *testing.T) {
		_, err := Load(writeManifest(t, `
hydro:
  - name: X
    window: {start: "2010-01-01", end: "2010-01-02"}
    series:
      - {station: A, variable: Flow, file: a.csv, sqlite: a.db}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of file or sqlite")
	})

	t.Run("inverted demand window rejected", func(t *testing.T) {
		_, err := Load(writeManifest(t, `
demand:
  - municipality: Pokhara
    census_file: census.csv
    window: {start: "2025-01-01", end: "2010-01-01"}
`))
		require.Error(t, err)
	})

	t.Run("percent plumbed range checked", func(t *testing.T) {
		_, err := Load(writeManifest(t, `
demand:
  - municipality: Pokhara
    census_file: census.csv
    window: {start: "2010-01-01", end: "2010-01-02"}
    percent_plumbed: 140
`))
		require.Error(t, err)
	})

	t.Run("inverted landuse years rejected", func(t *testing.T) {
		_, err := Load(writeManifest(t, `
landuse:
  - area: X
    pixels_file: p.csv
    start_year: 2021
    end_year: 2010
`))
		require.Error(t, err)
	})

	t.Run("missing manifest file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
