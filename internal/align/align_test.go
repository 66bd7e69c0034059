package align_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catchmentlab/weap-export/internal/align"
	"github.com/catchmentlab/weap-export/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2020, time.January, d, 0, 0, 0, 0, time.UTC)
}

func window(t *testing.T, start, end int) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(day(start), day(end))
	require.NoError(t, err)
	return r
}

func series(t *testing.T, station string, points ...domain.Observation) domain.TimeSeries {
	t.Helper()
	s, err := domain.NewTimeSeries(station, "Streamflow", "m3/s", points)
	require.NoError(t, err)
	return s
}

func TestAlign(t *testing.T) {
	t.Run("fills gaps with missing markers", func(t *testing.T) {
		// Values on days 1-5 of a 10-day window: 10 rows, 5 missing.
		var points []domain.Observation
		for d := 1; d <= 5; d++ {
			points = append(points, domain.Observation{Date: day(d), Value: domain.Number(float64(d))})
		}
		s := series(t, "A", points...)

		table, err := align.Align([]domain.TimeSeries{s}, window(t, 1, 10))
		require.NoError(t, err)

		assert.Len(t, table.Rows, 10)
		assert.Equal(t, 5, table.MissingCount())
		for i := 0; i < 5; i++ {
			assert.True(t, table.Rows[i].Values[0].Valid)
		}
		for i := 5; i < 10; i++ {
			assert.False(t, table.Rows[i].Values[0].Valid)
		}
	})

	t.Run("row count equals days in window", func(t *testing.T) {
		s := series(t, "A", domain.Observation{Date: day(3), Value: domain.Number(1)})
		for _, days := range []int{1, 7, 31} {
			table, err := align.Align([]domain.TimeSeries{s}, window(t, 1, days))
			require.NoError(t, err)
			assert.Len(t, table.Rows, days)
		}
	})

	t.Run("rows strictly ascending, all inside window", func(t *testing.T) {
		s := series(t, "A")
		r := window(t, 5, 20)
		table, err := align.Align([]domain.TimeSeries{s}, r)
		require.NoError(t, err)

		for i, row := range table.Rows {
			assert.True(t, r.Contains(row.Date))
			if i > 0 {
				assert.True(t, row.Date.After(table.Rows[i-1].Date))
			}
		}
	})

	t.Run("column order preserved from input", func(t *testing.T) {
		a := series(t, "Zulu")
		b := series(t, "Alpha")
		table, err := align.Align([]domain.TimeSeries{a, b}, window(t, 1, 2))
		require.NoError(t, err)
		assert.Equal(t, []string{"Zulu [m3/s]", "Alpha [m3/s]"}, table.Columns)
	})

	t.Run("series with no coverage yields all-missing column", func(t *testing.T) {
		empty := series(t, "Dry")
		table, err := align.Align([]domain.TimeSeries{empty}, window(t, 1, 4))
		require.NoError(t, err)
		assert.Equal(t, 4, table.MissingCount())
	})

	t.Run("observations outside window dropped, not shifted", func(t *testing.T) {
		s := series(t, "A",
			domain.Observation{Date: day(1), Value: domain.Number(99)},
			domain.Observation{Date: day(15), Value: domain.Number(42)},
		)
		table, err := align.Align([]domain.TimeSeries{s}, window(t, 10, 20))
		require.NoError(t, err)

		assert.Equal(t, 10, table.MissingCount())
		assert.Equal(t, domain.Number(42), table.Rows[5].Values[0])
	})

	t.Run("observed zero is not a gap", func(t *testing.T) {
		s := series(t, "A", domain.Observation{Date: day(1), Value: domain.Number(0)})
		table, err := align.Align([]domain.TimeSeries{s}, window(t, 1, 1))
		require.NoError(t, err)
		assert.Equal(t, 0, table.MissingCount())
		assert.True(t, table.Rows[0].Values[0].Valid)
	})

	t.Run("inverted range fails", func(t *testing.T) {
		r := domain.DateRange{Start: day(10), End: day(1)}
		_, err := align.Align(nil, r)
		var rangeErr *domain.RangeError
		require.ErrorAs(t, err, &rangeErr)
	})
}
