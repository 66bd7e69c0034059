package weap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Directive lines WEAP requires at the top of every import file, in order.
const (
	listSeparatorDirective = "$ListSeparator = ,"
	decimalSymbolDirective = "$DecimalSymbol = ."
	columnsDirective       = "$Columns = "
)

// Export serializes a table to w. The output is byte-for-byte reproducible:
// the same table always yields the same bytes, independent of locale or
// timezone. The header token "$Columns = " is written exactly once, joined to
// the first column name.
//
// Deliberately not encoding/csv: the directive lines contain the list
// separator themselves and must not be quoted, and missing values must stay
// truly empty fields.
func Export(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(listSeparatorDirective)
	bw.WriteByte('\n')
	bw.WriteString(decimalSymbolDirective)
	bw.WriteByte('\n')
	if t.Title != "" {
		bw.WriteString("# ")
		bw.WriteString(t.Title)
		bw.WriteByte('\n')
	}

	bw.WriteString(columnsDirective)
	bw.WriteString(strings.Join(t.Columns, ","))
	bw.WriteByte('\n')

	for _, row := range t.Cells {
		bw.WriteString(strings.Join(row, ","))
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write weap table: %w", err)
	}
	return nil
}

// ExportFile writes a table to path, creating or truncating the file. Write
// failures propagate verbatim; a partially written file is left in place for
// the weapcheck tool to flag rather than cleaned up here.
func ExportFile(path string, t Table) (err error) {
	f, createErr := os.Create(path)
	if createErr != nil {
		return fmt.Errorf("create %s: %w", path, createErr)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if err = Export(f, t); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
