// Package domain models catchment observation data bound for the Water
// Evaluation And Planning (WEAP) tool.
//
// # Data Sources
//
// Observations arrive from three kinds of collaborators, all converted to
// plain in-memory values before any core logic runs:
//
//   - Gauge and weather-station spreadsheets: one worksheet or CSV per
//     station (hydro) or per variable (meteo), a Date column plus one value
//     column per station. Date coverage differs per station and rarely
//     matches the modeling window.
//   - Zonal land-use statistics: per-subcatchment pixel counts for the ICIMOD
//     integer land-cover classification, produced upstream from a 30 m raster
//     clipped to subcatchment polygons.
//   - Ward census tables: authoritative population counts at census years,
//     used as anchors for demand forecasting.
//
// # Date Conventions
//
// All dates are calendar days, stored as time.Time at UTC midnight. Input
// dates are accepted in ISO-8601 (2006-01-02) or DD/Mon/YYYY (02/Jan/2006)
// form; everything exported uses ISO-8601. Rows whose dates parse in neither
// form are skipped and counted for the audit trail, never silently dropped.
//
// # Missing Values
//
// A [Value] with Valid == false means "observed record exists, value absent".
// It is distinct from zero and from a parse failure, survives alignment as an
// empty CSV field, and is the only sanctioned representation of "no data".
//
// # WEAP File Contract
//
// Every exported file opens with the directive lines
//
//	$ListSeparator = ,
//	$DecimalSymbol = .
//
// followed (for land-use files) by a "# <subcatchment>" title line, then a
// header line whose first cell is the literal token "$Columns = " joined to
// the key column name (Date or Year), then one comma-separated data row per
// day or year. The decimal marker is always "." regardless of host locale.
// Serialization lives in the weap package; the contract is documented here
// because the column naming (unit suffixes like "Nayapul [m3/s]") is decided
// when datasets are assembled from these domain types.
package domain
