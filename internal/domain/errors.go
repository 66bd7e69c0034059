package domain

import "fmt"

// RangeError reports an invalid requested date or year window. It is fatal
// for the export call that supplied the window.
type RangeError struct {
	Start string
	End   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s before start %s", e.End, e.Start)
}

// InsufficientDataError reports that a ward does not carry enough census
// points to forecast. It is fatal for that ward only; other wards in the same
// dataset continue processing.
type InsufficientDataError struct {
	Ward  string
	Count int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("ward %q: %d distinct census years, need at least 2", e.Ward, e.Count)
}

// SchemaError reports a row/column mismatch while assembling an export table,
// or malformed series input. It indicates an upstream loader bug and is fatal
// for the dataset.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Detail
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Detail: fmt.Sprintf(format, args...)}
}
