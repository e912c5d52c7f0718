// Command processor runs the full trip data cleaning pipeline: discover
// downloaded monthly files, parse them, resolve cancelled fares, filter
// outliers, derive zone analytics, and export the cleaned dataset plus
// reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"taxicli/internal/config"
	"taxicli/internal/infrastructure"
	"taxicli/internal/operations"
)

func main() {
	months := flag.String("months", "", "comma-separated months to process (e.g. 2025-01,2025-02); empty processes every downloaded file")
	borough := flag.String("borough", "Manhattan", "borough label for the zone report")
	flag.Parse()

	if err := run(*months, *borough); err != nil {
		slog.Error("processor failed", "error", err)
		os.Exit(1)
	}
}

func run(monthsFlag, borough string) error {
	// .env is optional; real deployments configure via environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
	}
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	state := operations.NewPipelineState(cfg, paths, splitMonths(monthsFlag))
	manager := operations.NewManager(logger, providers.Tracer,
		metrics, operations.NewPipelineSteps(logger, metrics, borough))

	if err := manager.Execute(ctx, state); err != nil {
		return err
	}

	fmt.Printf("Cleaned %d of %d rows into %s\n",
		state.Summary.OutputRows, state.Summary.InputRows, state.Summary.OutputFile)
	if state.Summary.ReportFile != "" {
		fmt.Printf("Zone report written to %s\n", state.Summary.ReportFile)
	}

	return nil
}

// splitMonths parses the -months flag value
func splitMonths(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
