// Command weapexport runs the full export pipeline: it loads every dataset
// named in the manifest, normalizes it, and writes one WEAP-format CSV per
// variable, subcatchment, or ward to the output directory.
//
// Usage:
//
//	weapexport -manifest manifest.yaml [-out OutputData]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/catchmentlab/weap-export/internal/config"
	"github.com/catchmentlab/weap-export/internal/observability"
	"github.com/catchmentlab/weap-export/internal/pipeline"
)

func main() {
	manifestPath := flag.String("manifest", "manifest.yaml", "path to the export manifest")
	outDir := flag.String("out", "", "output directory (overrides manifest output_dir)")
	flag.Parse()

	cfg, err := config.Load(*manifestPath)
	if err != nil {
		slog.Error("failed to load manifest", "error", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	logger := observability.NewLogger(observability.ParseLevel(cfg.LogLevel), cfg.LogFormat).
		With("run_id", uuid.NewString())
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Error("cannot create output directory", "dir", cfg.OutputDir, "error", err)
		os.Exit(1)
	}

	datasets, err := buildDatasets(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load datasets", "error", err)
		os.Exit(1)
	}
	if len(datasets) == 0 {
		logger.Warn("manifest names no datasets, nothing to export")
		return
	}

	runner := pipeline.NewRunner(datasets, pipeline.Destination{Dir: cfg.OutputDir}, logger, metrics)
	logger.Info("datasets loaded", "datasets", len(datasets), "output_dir", cfg.OutputDir)

	if err := runner.Execute(ctx); err != nil {
		logger.Error("export run finished with failures", "error", err)
		os.Exit(1)
	}
	logger.Info("export run complete")
}
