// Package pipeline orchestrates dataset exports: each loaded dataset runs
// load -> transform -> export start to finish, producing one WEAP file per
// variable, subcatchment, or ward.
//
// Failure isolation follows two tiers. Per-unit failures (one ward, one
// subcatchment) are logged, counted, and skipped so one bad record cannot
// abort a multi-unit export. Pipeline-level failures (inverted window,
// unwritable destination) abort that dataset's export call.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/catchmentlab/weap-export/internal/domain"
	"github.com/catchmentlab/weap-export/internal/observability"
)

// Destination names the directory all output files land in.
type Destination struct {
	Dir string
}

// Path joins the destination directory with an output file name.
func (d Destination) Path(name string) string {
	return filepath.Join(d.Dir, name)
}

// Run carries the shared per-invocation dependencies every dataset export
// needs.
type Run struct {
	Dest    Destination
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Dataset is one loaded dataset's full export. Implementations hold immutable
// loaded data; Export is free to be called once per run.
type Dataset interface {
	Name() string
	Export(ctx context.Context, run *Run) error
}

// Runner executes every configured dataset sequentially. Datasets are
// independent: a failed dataset is recorded and the rest still run.
type Runner struct {
	datasets []Dataset
	run      *Run
}

// NewRunner creates a Runner over the given datasets.
func NewRunner(datasets []Dataset, dest Destination, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		datasets: datasets,
		run:      &Run{Dest: dest, Logger: logger, Metrics: metrics},
	}
}

// Execute runs all datasets, returning the joined errors of any that failed.
// Context cancellation stops between datasets. Timestamps come from the
// domain clock so tests can freeze them; exported data never reads it.
func (r *Runner) Execute(ctx context.Context) error {
	clk := domain.Clock()
	runStart := clk.Now()
	r.run.Logger.Info("export run starting", "datasets", len(r.datasets), "started_at", runStart)

	var failures []error
	for _, ds := range r.datasets {
		if err := ctx.Err(); err != nil {
			r.run.Logger.Info("export run stopping", "reason", err)
			return errors.Join(append(failures, err)...)
		}

		start := clk.Now()
		if err := ds.Export(ctx, r.run); err != nil {
			r.run.Logger.Error("dataset export failed", "dataset", ds.Name(), "error", err)
			r.run.Metrics.ExportErrors.Inc()
			failures = append(failures, err)
			continue
		}
		r.run.Metrics.ExportDuration.Observe(clk.Since(start).Seconds())
		r.run.Logger.Info("dataset exported", "dataset", ds.Name(), "duration", clk.Since(start))
	}

	r.run.Logger.Info("export run finished", "duration", clk.Since(runStart), "failures", len(failures))
	return errors.Join(failures...)
}
