// Package landuse converts per-subcatchment land-cover statistics into the
// year-replicated tables WEAP consumes.
//
// The replication deliberately encodes a static land-use assumption: one
// snapshot is copied to every modeled year. Supporting land-use change over
// time means replacing Replicate, not parameterizing it.
package landuse

import (
	"fmt"
	"strconv"

	"github.com/catchmentlab/weap-export/internal/domain"
	"github.com/catchmentlab/weap-export/internal/weap"
)

// ICIMOD integer land-cover classes, as delivered in the upstream raster.
const (
	ClassWaterbody       = 1
	ClassGlacier         = 2
	ClassSnow            = 3
	ClassForest          = 4
	ClassRiverbed        = 5
	ClassBuiltUp         = 6
	ClassCropland        = 7
	ClassBareSoil        = 8
	ClassBareRock        = 9
	ClassGrassland       = 10
	ClassOtherWoodedLand = 11
	ClassNone            = 15
)

// exported land-use column headers, in WEAP's expected order
var categoryColumns = []string{
	"Agriculture [ha]",
	"Forest [ha]",
	"Grassland [ha]",
	"Waterbody [ha]",
	"Urban [ha]",
}

// PixelAreaHectares converts a raster resolution in metres to the area of one
// pixel in hectares.
func PixelAreaHectares(resolutionMetres float64) float64 {
	return resolutionMetres * resolutionMetres / 10000
}

// MergeClasses collapses raw ICIMOD pixel counts into the five WEAP
// categories, in hectares:
//
//	Cropland                          -> Agriculture
//	Forest + Other wooded land        -> Forest
//	Grassland + Bare soil + Bare rock -> Grassland
//	Waterbody + Riverbed              -> Waterbody
//	Built-up area                     -> Urban
//
// Glacier, Snow, and None pixels are not represented in WEAP and are dropped.
func MergeClasses(pixels map[int]int, resolutionMetres float64) domain.LandUseAreas {
	ha := PixelAreaHectares(resolutionMetres)
	px := func(class int) float64 { return float64(pixels[class]) * ha }
	return domain.LandUseAreas{
		Agriculture: px(ClassCropland),
		Forest:      px(ClassForest) + px(ClassOtherWoodedLand),
		Grassland:   px(ClassGrassland) + px(ClassBareSoil) + px(ClassBareRock),
		Waterbody:   px(ClassWaterbody) + px(ClassRiverbed),
		Urban:       px(ClassBuiltUp),
	}
}

// YearRange lists every year in the inclusive [start, end] window.
func YearRange(start, end int) ([]int, error) {
	if end < start {
		return nil, &domain.RangeError{Start: strconv.Itoa(start), End: strconv.Itoa(end)}
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years, nil
}

// Replicate builds one subcatchment's export table: a row per requested year,
// every row carrying the identical category areas from the snapshot.
func Replicate(sub domain.SubcatchmentAreas, years []int) (weap.Table, error) {
	if len(years) == 0 {
		return weap.Table{}, fmt.Errorf("subcatchment %q: no years requested", sub.Name)
	}

	columns := append([]string{weap.YearColumn}, categoryColumns...)
	areas := []string{
		weap.FormatFloat(sub.Areas.Agriculture),
		weap.FormatFloat(sub.Areas.Forest),
		weap.FormatFloat(sub.Areas.Grassland),
		weap.FormatFloat(sub.Areas.Waterbody),
		weap.FormatFloat(sub.Areas.Urban),
	}

	rows := make([]weap.Row, 0, len(years))
	for _, year := range years {
		row := weap.Row{weap.YearColumn: strconv.Itoa(year)}
		for i, col := range categoryColumns {
			row[col] = areas[i]
		}
		rows = append(rows, row)
	}

	return weap.BuildTable("Catchment "+sub.Name, columns, rows)
}
