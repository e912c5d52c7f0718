package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves every file location the tools read or write.
// This is the single source of truth for the on-disk layout:
//
//	data/
//	  ├── downloads/   (raw monthly trip CSVs)
//	  └── reports/     (cleaned CSV, zone report, run summaries)
//	logs/
type Paths struct {
	DataDir      string
	DownloadsDir string
	ReportsDir   string
	LogsDir      string
}

// NewPaths builds a Paths from configuration, resolving relative
// entries against the working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(wd, p)
	}

	return &Paths{
		DataDir:      resolve(cfg.DataDir),
		DownloadsDir: resolve(cfg.DownloadsDir),
		ReportsDir:   resolve(cfg.ReportsDir),
		LogsDir:      resolve(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates the full directory layout
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.DownloadsDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// TripFilePath returns the download path for one monthly trip file
func (p *Paths) TripFilePath(month string) string {
	return filepath.Join(p.DownloadsDir, TripFilePrefix+month+TripFileExt)
}

// CleanedCSVPath returns the path of the cleaned trips CSV
func (p *Paths) CleanedCSVPath() string {
	return filepath.Join(p.ReportsDir, CleanedTripsCSV)
}

// ZoneReportPath returns the path of the Excel zone report
func (p *Paths) ZoneReportPath() string {
	return filepath.Join(p.ReportsDir, ZoneReportXLSX)
}

// SummaryPath returns the path of the run summary JSON
func (p *Paths) SummaryPath() string {
	return filepath.Join(p.ReportsDir, CleanSummaryJSON)
}
