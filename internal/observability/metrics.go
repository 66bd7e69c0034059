package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the export pipeline.
type Metrics struct {
	RowsExported   *prometheus.CounterVec // labels: dataset
	MissingValues  prometheus.Counter
	FilesWritten   prometheus.Counter
	ExportErrors   prometheus.Counter
	ExportDuration prometheus.Histogram

	// Loader audit trail.
	RowsSkipped prometheus.Counter

	// Demand forecasting.
	WardsSkipped          prometheus.Counter
	ExtrapolationWarnings prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsExported,
		m.MissingValues,
		m.FilesWritten,
		m.ExportErrors,
		m.ExportDuration,
		m.RowsSkipped,
		m.WardsSkipped,
		m.ExtrapolationWarnings,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// construct pipelines freely without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weap_export",
			Name:      "rows_exported_total",
			Help:      "Data rows written across all output files.",
		}, []string{"dataset"}),
		MissingValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weap_export",
			Name:      "missing_values_total",
			Help:      "Cells emitted as the missing-value marker during alignment.",
		}),
		FilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weap_export",
			Name:      "files_written_total",
			Help:      "WEAP files successfully written.",
		}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weap_export",
			Name:      "export_errors_total",
			Help:      "Export failures, counted per failed unit.",
		}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weap_export",
			Name:      "export_duration_seconds",
			Help:      "Duration of one dataset's complete export.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weap_export",
			Name:      "loader_rows_skipped_total",
			Help:      "Input rows dropped for unparseable dates or values.",
		}),
		WardsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weap_export",
			Name:      "wards_skipped_total",
			Help:      "Wards skipped for insufficient census data.",
		}),
		ExtrapolationWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weap_export",
			Name:      "extrapolation_warnings_total",
			Help:      "Forecast years falling outside the observed census interval.",
		}),
	}
}
