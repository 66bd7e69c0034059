package weap_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catchmentlab/weap-export/internal/domain"
	"github.com/catchmentlab/weap-export/internal/weap"
)

func twoColumnTable(t *testing.T) weap.Table {
	t.Helper()
	table, err := weap.BuildTable("", []string{"Date", "Nayapul [m3/s]"}, []weap.Row{
		{"Date": "2020-01-01", "Nayapul [m3/s]": "1.5"},
		{"Date": "2020-01-02", "Nayapul [m3/s]": ""},
		{"Date": "2020-01-03", "Nayapul [m3/s]": "0"},
	})
	require.NoError(t, err)
	return table
}

func TestBuildTable(t *testing.T) {
	t.Run("valid table freezes cells in column order", func(t *testing.T) {
		table := twoColumnTable(t)
		assert.Equal(t, [][]string{
			{"2020-01-01", "1.5"},
			{"2020-01-02", ""},
			{"2020-01-03", "0"},
		}, table.Cells)
	})

	t.Run("first column must be Date or Year", func(t *testing.T) {
		_, err := weap.BuildTable("", []string{"Station", "Date"}, nil)
		var schemaErr *domain.SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("duplicate columns rejected", func(t *testing.T) {
		_, err := weap.BuildTable("", []string{"Date", "A", "A"}, nil)
		require.Error(t, err)
	})

	t.Run("row missing a declared column rejected", func(t *testing.T) {
		_, err := weap.BuildTable("", []string{"Date", "A"}, []weap.Row{{"Date": "2020-01-01"}})
		require.Error(t, err)
	})

	t.Run("row with undeclared column rejected", func(t *testing.T) {
		_, err := weap.BuildTable("", []string{"Date", "A"}, []weap.Row{
			{"Date": "2020-01-01", "B": "1"},
		})
		require.Error(t, err)
	})

	t.Run("no columns rejected", func(t *testing.T) {
		_, err := weap.BuildTable("", nil, nil)
		require.Error(t, err)
	})
}

func TestExport(t *testing.T) {
	t.Run("2-column 3-row table is exactly 6 lines", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, weap.Export(&buf, twoColumnTable(t)))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, 6) // 2 directives + 1 header + 3 data rows

		assert.Equal(t, "$ListSeparator = ,", lines[0])
		assert.Equal(t, "$DecimalSymbol = .", lines[1])
		assert.True(t, strings.HasPrefix(lines[2], "$Columns = "))
		assert.Equal(t, "$Columns = Date,Nayapul [m3/s]", lines[2])
	})

	t.Run("missing value is an empty field", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, weap.Export(&buf, twoColumnTable(t)))
		assert.Contains(t, buf.String(), "2020-01-02,\n")
	})

	t.Run("title line sits between directives and header", func(t *testing.T) {
		table, err := weap.BuildTable("Catchment Modi", []string{"Year", "Urban [ha]"}, []weap.Row{
			{"Year": "2020", "Urban [ha]": "189"},
		})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, weap.Export(&buf, table))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "# Catchment Modi", lines[2])
		assert.Equal(t, "$Columns = Year,Urban [ha]", lines[3])
	})

	t.Run("byte-for-byte reproducible", func(t *testing.T) {
		table := twoColumnTable(t)
		var a, b bytes.Buffer
		require.NoError(t, weap.Export(&a, table))
		require.NoError(t, weap.Export(&b, table))
		assert.Equal(t, a.Bytes(), b.Bytes())
	})
}

func TestExportFile(t *testing.T) {
	t.Run("writes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, weap.ExportFile(path, twoColumnTable(t)))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "$ListSeparator = ,\n"))
	})

	t.Run("unwritable destination propagates", func(t *testing.T) {
		err := weap.ExportFile(filepath.Join(t.TempDir(), "missing", "out.csv"), twoColumnTable(t))
		require.Error(t, err)
	})
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"integer valued", 1500, "1500"},
		{"fractional", 1.25, "1.25"},
		{"large stays plain decimal", 1000000, "1000000"},
		{"small stays plain decimal", 0.000125, "0.000125"},
		{"negative", -3.5, "-3.5"},
		{"zero", 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, weap.FormatFloat(tt.input))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", weap.FormatValue(domain.Value{}))
	assert.Equal(t, "0", weap.FormatValue(domain.Number(0)))
	assert.Equal(t, "2.75", weap.FormatValue(domain.Number(2.75)))
}
