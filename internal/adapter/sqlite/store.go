// Package sqlite reads gauge observations from a SQLite archive, the delivery
// format some hydrology agencies use instead of spreadsheets. A NULL value
// column maps to the missing-value marker, never to zero.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/catchmentlab/weap-export/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS observations (
	station  TEXT NOT NULL,
	variable TEXT NOT NULL,
	obs_date TEXT NOT NULL,
	value    REAL,
	PRIMARY KEY (station, variable, obs_date)
);`

// Store wraps a SQLite observation archive.
type Store struct {
	db *sql.DB
}

// Open opens the archive at path and validates connectivity early.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// SQLite works best single-writer; the pipeline only reads anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the observations table. Used by the fixture generator and
// tests; production archives arrive pre-populated.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Insert stores one observation. A missing value is stored as NULL.
func (s *Store) Insert(ctx context.Context, station, variable string, obs domain.Observation) error {
	var value any
	if obs.Value.Valid {
		value = obs.Value.Float
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO observations (station, variable, obs_date, value) VALUES (?, ?, ?, ?)`,
		station, variable, domain.FormatDate(obs.Date), value,
	)
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	return nil
}

// SeriesFor reads one station/variable series in date order. Rows whose
// stored date does not parse are skipped and counted, matching the CSV
// loader's audit behavior.
func (s *Store) SeriesFor(ctx context.Context, station, variable, unit string) (domain.TimeSeries, int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT obs_date, value FROM observations
		 WHERE station = ? AND variable = ?
		 ORDER BY obs_date`,
		station, variable,
	)
	if err != nil {
		return domain.TimeSeries{}, 0, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var points []domain.Observation
	skipped := 0
	for rows.Next() {
		var dateStr string
		var value sql.NullFloat64
		if err := rows.Scan(&dateStr, &value); err != nil {
			return domain.TimeSeries{}, skipped, fmt.Errorf("scan observation: %w", err)
		}

		date, err := domain.ParseDate(dateStr)
		if err != nil {
			skipped++
			continue
		}

		obs := domain.Observation{Date: date}
		if value.Valid {
			obs.Value = domain.Number(value.Float64)
		}
		points = append(points, obs)
	}
	if err := rows.Err(); err != nil {
		return domain.TimeSeries{}, skipped, fmt.Errorf("iterate observations: %w", err)
	}

	series, err := domain.NewTimeSeries(station, variable, unit, points)
	if err != nil {
		return domain.TimeSeries{}, skipped, err
	}
	return series, skipped, nil
}
