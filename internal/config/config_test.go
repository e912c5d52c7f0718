package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxicli/pkg/contracts/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, domain.DefaultRideIDColumns(), cfg.Cleaning.IdentityFields)
	assert.Equal(t, domain.DefaultFeeColumns(), cfg.Cleaning.MonetaryFields)
	assert.Equal(t, domain.ColFareAmount, cfg.Cleaning.FareField)
	assert.Equal(t, domain.ColTipAmount, cfg.Cleaning.TipField)
	assert.False(t, cfg.Cleaning.TipRatioFilter)
	assert.Equal(t, 0.01, cfg.Cleaning.LowerQuantile)
	assert.Equal(t, 0.99, cfg.Cleaning.UpperQuantile)
	assert.Equal(t, DefaultTripDataBaseURL, cfg.Fetch.BaseURL)

	require.NoError(t, cfg.Validate())
}

func TestValidate_QuantileBounds(t *testing.T) {
	tests := []struct {
		name    string
		lower   float64
		upper   float64
		wantErr bool
	}{
		{"default band", 0.01, 0.99, false},
		{"widest band", 0, 1, false},
		{"lower above one", 1.5, 0.99, true},
		{"negative lower", -0.1, 0.99, true},
		{"lower equals upper", 0.5, 0.5, true},
		{"lower above upper", 0.9, 0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Cleaning.LowerQuantile = tt.lower
			cfg.Cleaning.UpperQuantile = tt.upper

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := Default()
	cfg.Cleaning.IdentityFields = nil
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Fetch.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestLoad_YAMLThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	yamlContent := []byte(`
logging:
  level: debug
cleaning:
  lower_quantile: 0.05
  upper_quantile: 0.95
`)
	require.NoError(t, os.WriteFile(configFile, yamlContent, 0o644))

	t.Setenv("TAXI_CONFIG_FILE", configFile)
	t.Setenv("TAXI_LOGGING_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides the file, the file overrides defaults.
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 0.05, cfg.Cleaning.LowerQuantile)
	assert.Equal(t, 0.95, cfg.Cleaning.UpperQuantile)
	// Untouched values keep their defaults.
	assert.Equal(t, domain.ColFareAmount, cfg.Cleaning.FareField)
}

func TestLoad_InvalidEnvValueFailsValidation(t *testing.T) {
	t.Setenv("TAXI_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TAXI_CLEANING_UPPER_QUANTILE", "1.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestNewPaths_ResolvesRelative(t *testing.T) {
	paths, err := NewPaths(Default().Paths)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.DataDir))
	assert.True(t, filepath.IsAbs(paths.DownloadsDir))
}

func TestPaths_WellKnownFiles(t *testing.T) {
	p := &Paths{DownloadsDir: "/d", ReportsDir: "/r"}

	assert.Equal(t, filepath.Join("/d", "yellow_tripdata_2025-01.csv"), p.TripFilePath("2025-01"))
	assert.Equal(t, filepath.Join("/r", "cleaned_trips.csv"), p.CleanedCSVPath())
	assert.Equal(t, filepath.Join("/r", "zone_report.xlsx"), p.ZoneReportPath())
	assert.Equal(t, filepath.Join("/r", "clean_summary.json"), p.SummaryPath())
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	p := &Paths{
		DataDir:      filepath.Join(base, "data"),
		DownloadsDir: filepath.Join(base, "data", "downloads"),
		ReportsDir:   filepath.Join(base, "data", "reports"),
		LogsDir:      filepath.Join(base, "logs"),
	}

	require.NoError(t, p.EnsureDirectories())
	for _, dir := range []string{p.DataDir, p.DownloadsDir, p.ReportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
