package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"ISO-8601", "2015-03-02", day(2015, time.March, 2), false},
		{"ISO with surrounding space", "  2015-03-02 ", day(2015, time.March, 2), false},
		{"day-month-year", "02/Mar/2015", day(2015, time.March, 2), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "yesterday", time.Time{}, true},
		{"US slashes", "03/02/2015", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewDateRange(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		r, err := NewDateRange(day(2020, time.January, 1), day(2020, time.January, 10))
		require.NoError(t, err)
		assert.Equal(t, 10, r.Days())
	})

	t.Run("single day", func(t *testing.T) {
		r, err := NewDateRange(day(2020, time.June, 5), day(2020, time.June, 5))
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
		assert.Equal(t, []time.Time{day(2020, time.June, 5)}, r.Dates())
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := NewDateRange(day(2020, time.January, 10), day(2020, time.January, 1))
		var rangeErr *RangeError
		require.ErrorAs(t, err, &rangeErr)
	})

	t.Run("endpoints normalized to midnight", func(t *testing.T) {
		r, err := NewDateRange(
			time.Date(2020, time.January, 1, 14, 30, 0, 0, time.UTC),
			time.Date(2020, time.January, 2, 3, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, r.Days())
	})

	t.Run("dates cross a leap day", func(t *testing.T) {
		r, err := NewDateRange(day(2020, time.February, 28), day(2020, time.March, 1))
		require.NoError(t, err)
		assert.Equal(t, 3, r.Days())
		assert.Equal(t, day(2020, time.February, 29), r.Dates()[1])
	})
}

func TestNewTimeSeries(t *testing.T) {
	t.Run("strictly increasing accepted", func(t *testing.T) {
		s, err := NewTimeSeries("Nayapul", "Streamflow", "m3/s", []Observation{
			{Date: day(2020, time.January, 1), Value: Number(1.5)},
			{Date: day(2020, time.January, 3)},
		})
		require.NoError(t, err)
		assert.Len(t, s.Points, 2)
	})

	t.Run("duplicate date rejected", func(t *testing.T) {
		_, err := NewTimeSeries("Nayapul", "Streamflow", "", []Observation{
			{Date: day(2020, time.January, 1)},
			{Date: day(2020, time.January, 1)},
		})
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("unsorted rejected", func(t *testing.T) {
		_, err := NewTimeSeries("Nayapul", "Streamflow", "", []Observation{
			{Date: day(2020, time.January, 5)},
			{Date: day(2020, time.January, 2)},
		})
		require.Error(t, err)
	})
}

func TestColumnName(t *testing.T) {
	withUnit := TimeSeries{Station: "Nayapul", Unit: "m3/s"}
	assert.Equal(t, "Nayapul [m3/s]", withUnit.ColumnName())

	noUnit := TimeSeries{Station: "Nayapul"}
	assert.Equal(t, "Nayapul", noUnit.ColumnName())
}

func TestValueZeroIsMissing(t *testing.T) {
	var v Value
	assert.False(t, v.Valid)
	assert.NotEqual(t, v, Number(0), "missing must stay distinct from an observed zero")
}
