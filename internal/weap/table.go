// Package weap assembles and serializes tables in the exact CSV dialect the
// WEAP modeling tool reads. The textual contract is rigid: two directive
// lines, an optional title line, a "$Columns = " header, then data rows with
// "." as the decimal marker regardless of host locale.
package weap

import (
	"strconv"

	"github.com/catchmentlab/weap-export/internal/domain"
)

// Key column names. Every table's first column must be one of these.
const (
	DateColumn = "Date"
	YearColumn = "Year"
)

// Row maps declared column names to pre-serialized cell values. A missing
// value is an empty string cell.
type Row map[string]string

// Table is the export-ready entity: ordered columns, ordered rows. Build one
// with BuildTable and treat it as immutable; export is a pure read.
type Table struct {
	Title   string // rendered as "# <Title>" when non-empty (land-use files)
	Columns []string
	Cells   [][]string // [row][column], column order matches Columns
}

// BuildTable validates the schema and freezes rows into positional cells.
// Column names must be unique, the first column must be Date or Year, and
// every row must carry exactly the declared columns — any mismatch is an
// upstream loader bug surfaced as a SchemaError.
func BuildTable(title string, columns []string, rows []Row) (Table, error) {
	if len(columns) == 0 {
		return Table{}, &domain.SchemaError{Detail: "no columns declared"}
	}
	if first := columns[0]; first != DateColumn && first != YearColumn {
		return Table{}, &domain.SchemaError{Detail: "first column must be Date or Year, got " + strconv.Quote(first)}
	}

	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if seen[col] {
			return Table{}, &domain.SchemaError{Detail: "duplicate column " + strconv.Quote(col)}
		}
		seen[col] = true
	}

	cells := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return Table{}, &domain.SchemaError{
				Detail: "row " + strconv.Itoa(i) + " has " + strconv.Itoa(len(row)) +
					" cells, declared " + strconv.Itoa(len(columns)),
			}
		}
		line := make([]string, len(columns))
		for ci, col := range columns {
			v, ok := row[col]
			if !ok {
				return Table{}, &domain.SchemaError{
					Detail: "row " + strconv.Itoa(i) + " missing column " + strconv.Quote(col),
				}
			}
			line[ci] = v
		}
		cells = append(cells, line)
	}

	return Table{Title: title, Columns: columns, Cells: cells}, nil
}

// FormatFloat renders a float in WEAP's plain decimal form: no exponent, "."
// as the decimal marker, shortest representation that round-trips.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatValue renders an observation cell: the empty field for a missing
// value, never a placeholder word and never zero.
func FormatValue(v domain.Value) string {
	if !v.Valid {
		return ""
	}
	return FormatFloat(v.Float)
}
