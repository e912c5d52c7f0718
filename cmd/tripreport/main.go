// Command tripreport derives the zone analytics report from an
// already-cleaned trips CSV, without re-running the cleaning pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"taxicli/internal/config"
	"taxicli/internal/dataprocessing"
	"taxicli/internal/exporter"
	"taxicli/internal/infrastructure"
	"taxicli/internal/operations"
)

func main() {
	input := flag.String("in", "", "cleaned trips CSV to analyze (defaults to the pipeline output)")
	output := flag.String("out", "", "zone report path (defaults to the pipeline report path)")
	borough := flag.String("borough", "Manhattan", "borough label for the zone report")
	flag.Parse()

	if err := run(*input, *output, *borough); err != nil {
		slog.Error("tripreport failed", "error", err)
		os.Exit(1)
	}
}

func run(input, output, borough string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return err
	}
	if input == "" {
		input = paths.CleanedCSVPath()
	}
	if output == "" {
		output = paths.ZoneReportPath()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	parser := dataprocessing.NewParser(logger, 1)
	table, err := parser.ParseFile(ctx, input)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	report, err := operations.BuildZoneReport(ctx, table, borough, logger)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("%s carries no zone columns, nothing to report", input)
	}

	writer := exporter.NewReportWriter(logger)
	if err := writer.WriteZoneReport(output, *report); err != nil {
		return err
	}

	fmt.Printf("Zone report for %s written to %s\n", borough, output)
	if report.SameZone != nil {
		fmt.Printf("Same-zone rides within %s: %s\n",
			borough, exporter.FormatPercent(report.SameZone.WithinPercent))
		fmt.Printf("Same-zone rides involving %s: %s\n",
			borough, exporter.FormatPercent(report.SameZone.InvolvedPercent))
	}

	return nil
}
