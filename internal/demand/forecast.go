// Package demand extrapolates population-driven municipal water demand beyond
// the observed census record.
//
// The growth law is linear interpolation between two census anchors:
//
//	pop(Y) = pop(Y1) + (pop(Y2) - pop(Y1)) * (Y - Y1) / (Y2 - Y1)
//
// anchored on the earliest and latest census years of the ward. It is the
// single supported growth law. Forecasting outside [Y1, Y2] is permitted but
// surfaced as a Warning.
package demand

import (
	"fmt"
	"sort"

	"github.com/catchmentlab/weap-export/internal/domain"
)

// Rates are per-capita daily demand rates in cubic metres per person per day,
// one per input category. Total has no rate: it is always recomputed.
type Rates struct {
	Domestic      float64
	Institutional float64
	Commercial    float64
	Municipal     float64
	Industrial    float64
}

// Default per-person daily demand assumptions, in m3/day.
const (
	DefaultPlumbedHomeRate   = 0.112
	DefaultUnplumbedHomeRate = 0.045
	DefaultStudentRate       = 0.01
)

// DomesticRate blends the plumbed and unplumbed household rates by the share
// of fully plumbed homes. percentPlumbed is the census figure in [0, 100].
func DomesticRate(percentPlumbed int, plumbedRate, unplumbedRate float64) (float64, error) {
	if percentPlumbed < 0 || percentPlumbed > 100 {
		return 0, fmt.Errorf("percent plumbed must be in [0,100], got %d", percentPlumbed)
	}
	share := float64(percentPlumbed) / 100
	return share*plumbedRate + (1-share)*unplumbedRate, nil
}

// InstitutionalRate converts a ward's student attendance count into a
// per-capita institutional rate, so institutional demand scales with the
// forecast population. population is the census population the count was
// taken against.
func InstitutionalRate(students, population, studentRate float64) (float64, error) {
	if students < 0 {
		return 0, fmt.Errorf("student count must be non-negative, got %g", students)
	}
	if population <= 0 {
		return 0, fmt.Errorf("reference population must be positive, got %g", population)
	}
	return students * studentRate / population, nil
}

// Warning flags a forecast year outside the observed census interval.
// It is advisory, not an error: the forecast proceeds.
type Warning struct {
	Ward      string
	Year      int
	CensusLow int
	CensusHi  int
}

func (w Warning) String() string {
	return fmt.Sprintf("ward %s: year %d extrapolated outside census years [%d, %d]",
		w.Ward, w.Year, w.CensusLow, w.CensusHi)
}

// PopulationAt evaluates the linear growth law for one year. Exact at both
// anchors: PopulationAt(y1...) == p1 and PopulationAt(y2...) == p2.
func PopulationAt(year, y1, y2 int, p1, p2 float64) float64 {
	if year == y1 {
		return p1
	}
	if year == y2 {
		return p2
	}
	return p1 + (p2-p1)*float64(year-y1)/float64(y2-y1)
}

// Forecast produces one DemandRecord per day per category (the five inputs
// plus the recomputed Total) for a single ward across the window. The
// earliest and latest distinct census years anchor the growth law; fewer than
// two distinct years is an InsufficientDataError. Identical inputs always
// yield bit-identical records: no randomness, no wall clock.
func Forecast(ward string, censuses []domain.WardPopulation, window domain.DateRange, rates Rates) ([]domain.DemandRecord, []Warning, error) {
	y1, y2, p1, p2, err := anchors(ward, censuses)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	warned := make(map[int]bool)

	dates := window.Dates()
	records := make([]domain.DemandRecord, 0, len(dates)*(len(domain.DemandCategories)+1))
	for _, d := range dates {
		year := d.Year()
		if (year < y1 || year > y2) && !warned[year] {
			warned[year] = true
			warnings = append(warnings, Warning{Ward: ward, Year: year, CensusLow: y1, CensusHi: y2})
		}

		pop := PopulationAt(year, y1, y2, p1, p2)
		total := 0.0
		for _, cat := range domain.DemandCategories {
			volume := pop * rateFor(rates, cat)
			total += volume
			records = append(records, domain.DemandRecord{Date: d, Unit: ward, Category: cat, Volume: volume})
		}
		records = append(records, domain.DemandRecord{Date: d, Unit: ward, Category: domain.Total, Volume: total})
	}

	return records, warnings, nil
}

// anchors picks the earliest and latest distinct census years for the ward.
func anchors(ward string, censuses []domain.WardPopulation) (y1, y2 int, p1, p2 float64, err error) {
	byYear := make(map[int]float64)
	for _, c := range censuses {
		if c.Ward != ward {
			continue
		}
		byYear[c.Year] = c.Population
	}
	if len(byYear) < 2 {
		return 0, 0, 0, 0, &domain.InsufficientDataError{Ward: ward, Count: len(byYear)}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	y1, y2 = years[0], years[len(years)-1]
	return y1, y2, byYear[y1], byYear[y2], nil
}

func rateFor(r Rates, cat domain.DemandCategory) float64 {
	switch cat {
	case domain.Domestic:
		return r.Domestic
	case domain.Institutional:
		return r.Institutional
	case domain.Commercial:
		return r.Commercial
	case domain.Municipal:
		return r.Municipal
	case domain.Industrial:
		return r.Industrial
	default:
		return 0
	}
}
