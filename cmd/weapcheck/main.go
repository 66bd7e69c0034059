// Command weapcheck verifies exported files against the WEAP import
// contract: directive preamble, header token, field counts, decimal symbol,
// and key-column ordering. Run it after an export to catch partial files
// left behind by a failed run.
//
// Usage:
//
//	weapcheck -dir OutputData
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/catchmentlab/weap-export/internal/domain"
)

// phase tracks pass/fail for one checked file.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "", "directory of exported WEAP CSV files")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*dir))
}

func run(dir string) int {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "glob: %v\n", err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "no CSV files in %s\n", dir)
		return 1
	}

	failed := 0
	for _, path := range paths {
		p := checkFile(path)
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("%d files checked, %d failed\n", len(paths), failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func checkFile(path string) *phase {
	p := &phase{name: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read: %v", err)
		return p
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) < 4 {
		p.errorf("only %d lines; need 2 directives, a header, and at least one data row", len(lines))
		return p
	}

	if lines[0] != "$ListSeparator = ," {
		p.errorf("line 1 is %q, want %q", lines[0], "$ListSeparator = ,")
	}
	if lines[1] != "$DecimalSymbol = ." {
		p.errorf("line 2 is %q, want %q", lines[1], "$DecimalSymbol = .")
	}

	headerIdx := 2
	if strings.HasPrefix(lines[2], "# ") {
		headerIdx = 3
	}
	if headerIdx >= len(lines) || !strings.HasPrefix(lines[headerIdx], "$Columns = ") {
		p.errorf("line %d must start with %q", headerIdx+1, "$Columns = ")
		return p
	}

	header := strings.TrimPrefix(lines[headerIdx], "$Columns = ")
	cols := strings.Split(header, ",")
	key := cols[0]
	if key != "Date" && key != "Year" {
		p.errorf("key column is %q, want Date or Year", key)
	}

	dataLines := lines[headerIdx+1:]
	if len(dataLines) == 0 {
		p.errorf("no data rows")
	}

	var prevKey int64
	hasPrev := false
	for i, line := range dataLines {
		fields := strings.Split(line, ",")
		if len(fields) != len(cols) {
			p.errorf("row %d has %d fields, header declares %d", i+1, len(fields), len(cols))
			continue
		}
		checkKeyCell(p, key, i, fields[0], &prevKey, &hasPrev)
		for j, cell := range fields[1:] {
			checkValueCell(p, i, cols[j+1], cell)
		}
	}

	return p
}

// checkKeyCell validates a key cell and its ordering. Keys compare by parsed
// value, not lexically, so years of different digit counts order correctly.
func checkKeyCell(p *phase, key string, row int, cell string, prev *int64, hasPrev *bool) {
	var ord int64
	switch key {
	case "Date":
		t, err := domain.ParseDate(cell)
		if err != nil {
			p.errorf("row %d: bad date %q", row+1, cell)
			return
		}
		ord = t.Unix()
	case "Year":
		y, err := strconv.Atoi(cell)
		if err != nil {
			p.errorf("row %d: bad year %q", row+1, cell)
			return
		}
		ord = int64(y)
	default:
		return // key column already flagged
	}
	if *hasPrev && ord <= *prev {
		p.errorf("row %d: key %q not strictly increasing", row+1, cell)
	}
	*prev, *hasPrev = ord, true
}

func checkValueCell(p *phase, row int, col, cell string) {
	if cell == "" {
		return // sanctioned missing-value marker
	}
	if _, err := strconv.ParseFloat(cell, 64); err != nil {
		p.errorf("row %d, column %q: %q is neither numeric nor empty", row+1, col, cell)
	}
}
