package domain

import (
	"time"
)

// Value is an observation value that may be missing. The zero Value is the
// missing-value marker; it is never interchangeable with Number(0).
type Value struct {
	Float float64
	Valid bool
}

// Number wraps a present float value.
func Number(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Observation is a single (date, value) point. Immutable once loaded.
type Observation struct {
	Date  time.Time
	Value Value
}

// TimeSeries holds the ordered observations of one variable at one station.
// Construct with NewTimeSeries so the ordering invariant holds.
type TimeSeries struct {
	Station  string
	Variable string
	Unit     string // empty when unspecified; otherwise appended to the export column name
	Points   []Observation
}

// NewTimeSeries validates that points are strictly increasing by date with no
// duplicates. Unsorted input is a loader bug and returns a SchemaError.
func NewTimeSeries(station, variable, unit string, points []Observation) (TimeSeries, error) {
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].Date, points[i].Date
		if !cur.After(prev) {
			return TimeSeries{}, schemaErrorf("series %s/%s: dates not strictly increasing at %s",
				station, variable, FormatDate(cur))
		}
	}
	return TimeSeries{Station: station, Variable: variable, Unit: unit, Points: points}, nil
}

// ColumnName is the exported header for this series: the station name, with
// the unit in square brackets when one is known.
func (s TimeSeries) ColumnName() string {
	if s.Unit == "" {
		return s.Station
	}
	return s.Station + " [" + s.Unit + "]"
}

// DateRange is an inclusive [Start, End] daily window at UTC midnight. It is
// supplied by the caller and is independent of any input series' coverage.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both endpoints to UTC midnight and rejects inverted
// windows with a RangeError.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = Midnight(start)
	end = Midnight(end)
	if end.Before(start) {
		return DateRange{}, &RangeError{Start: FormatDate(start), End: FormatDate(end)}
	}
	return DateRange{Start: start, End: end}, nil
}

// Days is the number of calendar days in the window, counting both endpoints.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Dates lists every day in the window in ascending order.
func (r DateRange) Dates() []time.Time {
	out := make([]time.Time, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Contains reports whether the day d falls inside the window.
func (r DateRange) Contains(d time.Time) bool {
	d = Midnight(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// WardPopulation is one census anchor: the population of a ward at a census
// year. At least two distinct years per ward are required to forecast.
type WardPopulation struct {
	Ward       string
	Year       int
	Population float64
}

// DemandCategory enumerates the water-demand categories WEAP expects.
type DemandCategory string

const (
	Domestic      DemandCategory = "Domestic"
	Institutional DemandCategory = "Institutional"
	Commercial    DemandCategory = "Commercial"
	Municipal     DemandCategory = "Municipal"
	Industrial    DemandCategory = "Industrial"
	Total         DemandCategory = "Total"
)

// DemandCategories lists the five input categories in export column order.
// Total is excluded: it is always recomputed as their sum, never read from
// input.
var DemandCategories = []DemandCategory{Domestic, Institutional, Commercial, Municipal, Industrial}

// DemandRecord is one day's demand volume for one ward or utility service
// area, in cubic metres per day.
type DemandRecord struct {
	Date     time.Time
	Unit     string // ward or utility identifier
	Category DemandCategory
	Volume   float64
}

// LandUseAreas holds the five fixed WEAP land-use categories in hectares.
// The category set is immutable over the modeling horizon; supporting
// temporal land-use change means replacing the replicator, not extending
// this struct.
type LandUseAreas struct {
	Agriculture float64
	Forest      float64
	Grassland   float64
	Waterbody   float64
	Urban       float64
}

// SubcatchmentAreas pairs a subcatchment identifier with its land-use
// snapshot.
type SubcatchmentAreas struct {
	Name  string
	Areas LandUseAreas
}
