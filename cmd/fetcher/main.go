// Command fetcher downloads monthly yellow-cab trip files from the TLC
// public CDN into the downloads directory.
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
	"taxicli/internal/fetch"
	"taxicli/internal/infrastructure"
)

func main() {
	months := flag.String("months", "", "comma-separated months to download (e.g. 2025-01,2025-02)")
	overwrite := flag.Bool("overwrite", false, "re-download files that are already present")
	flag.Parse()

	if err := run(*months, *overwrite); err != nil {
		slog.Error("fetcher failed", "error", err)
		os.Exit(1)
	}
}

func run(monthsFlag string, overwrite bool) error {
	_ = godotenv.Load()

	requested := splitMonths(monthsFlag)
	if len(requested) == 0 {
		return fmt.Errorf("no months requested, use -months 2025-01[,2025-02...]")
	}

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

	client := fetch.NewClient(cfg.Fetch, logger)
	downloaded, err := client.DownloadMonths(ctx, requested, paths.DownloadsDir, overwrite)
	if err != nil {
		return err
	}

	for _, path := range downloaded {
		fmt.Println(path)
	}
	fmt.Printf("Downloaded %d of %d requested files\n", len(downloaded), len(requested))

	return nil
}

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
