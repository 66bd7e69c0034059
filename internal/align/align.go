// Package align produces gap-free, date-indexed tables from raw time series
// whose native coverage rarely matches the requested modeling window.
package align

import (
	"time"

	"github.com/catchmentlab/weap-export/internal/domain"
)

// Row is one calendar day of the aligned table. Values are indexed like
// Table.Columns; a zero Value marks a gap.
type Row struct {
	Date   time.Time
	Values []domain.Value
}

// Table is the aligned result: exactly one row per day of the requested
// window, one column per input series, input order preserved.
type Table struct {
	Range   domain.DateRange
	Columns []string // export column names, unit suffix included
	Rows    []Row
}

// MissingCount returns how many cells of the table are gaps.
func (t Table) MissingCount() int {
	n := 0
	for _, row := range t.Rows {
		for _, v := range row.Values {
			if !v.Valid {
				n++
			}
		}
	}
	return n
}

// Align places every input series onto the daily grid of r. Days a series
// does not cover are filled with the missing-value marker. A series with no
// observations inside r at all yields an all-missing column — valid output,
// flagged by the caller rather than rejected here. Observations outside r are
// dropped, never shifted.
func Align(series []domain.TimeSeries, r domain.DateRange) (Table, error) {
	if r.End.Before(r.Start) {
		return Table{}, &domain.RangeError{Start: domain.FormatDate(r.Start), End: domain.FormatDate(r.End)}
	}

	lookups := make([]map[time.Time]domain.Value, len(series))
	columns := make([]string, len(series))
	for i, s := range series {
		m := make(map[time.Time]domain.Value, len(s.Points))
		for _, p := range s.Points {
			m[domain.Midnight(p.Date)] = p.Value
		}
		lookups[i] = m
		columns[i] = s.ColumnName()
	}

	dates := r.Dates()
	rows := make([]Row, len(dates))
	for di, d := range dates {
		values := make([]domain.Value, len(series))
		for si := range series {
			values[si] = lookups[si][d] // zero Value when absent
		}
		rows[di] = Row{Date: d, Values: values}
	}

	return Table{Range: r, Columns: columns, Rows: rows}, nil
}
