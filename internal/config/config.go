package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"taxicli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Fetch    FetchConfig    `yaml:"fetch" envconfig:"FETCH"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the filesystem layout
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	DownloadsDir string `yaml:"downloads_dir" envconfig:"DOWNLOADS_DIR" validate:"required"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// CleaningConfig carries the column lists and quantile band for the
// cleaning transforms. The field lists are explicit configuration so
// the cleaning core has no schema baked in. TipRatioFilter turns on an
// optional pass that drops extreme tip-to-fare ratios over the same
// quantile band.
type CleaningConfig struct {
	IdentityFields []string `yaml:"identity_fields" envconfig:"IDENTITY_FIELDS" validate:"min=1"`
	MonetaryFields []string `yaml:"monetary_fields" envconfig:"MONETARY_FIELDS" validate:"min=1"`
	FareField      string   `yaml:"fare_field" envconfig:"FARE_FIELD" validate:"required"`
	DurationField  string   `yaml:"duration_field" envconfig:"DURATION_FIELD" validate:"required"`
	DistanceField  string   `yaml:"distance_field" envconfig:"DISTANCE_FIELD" validate:"required"`
	TipField       string   `yaml:"tip_field" envconfig:"TIP_FIELD" validate:"required"`
	LowerQuantile  float64  `yaml:"lower_quantile" envconfig:"LOWER_QUANTILE" validate:"gte=0,lte=1"`
	UpperQuantile  float64  `yaml:"upper_quantile" envconfig:"UPPER_QUANTILE" validate:"gte=0,lte=1,gtfield=LowerQuantile"`
	TipRatioFilter bool     `yaml:"tip_ratio_filter" envconfig:"TIP_RATIO_FILTER"`
}

// FetchConfig configures the TLC trip file downloader
type FetchConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	RPS     float64       `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int           `yaml:"burst" envconfig:"BURST" validate:"gte=1"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: DefaultLogsDir + "/taxicli.log",
		},
		Paths: PathsConfig{
			DataDir:      DefaultDataDir,
			DownloadsDir: DefaultDownloadsDir,
			ReportsDir:   DefaultReportsDir,
			LogsDir:      DefaultLogsDir,
		},
		Cleaning: CleaningConfig{
			IdentityFields: domain.DefaultRideIDColumns(),
			MonetaryFields: domain.DefaultFeeColumns(),
			FareField:      domain.ColFareAmount,
			DurationField:  domain.ColDurationMins,
			DistanceField:  domain.ColTripDistance,
			TipField:       domain.ColTipAmount,
			LowerQuantile:  0.01,
			UpperQuantile:  0.99,
		},
		Fetch: FetchConfig{
			BaseURL: DefaultTripDataBaseURL,
			RPS:     DefaultFetchRPS,
			Burst:   DefaultFetchBurst,
			Timeout: DefaultHTTPTimeout,
		},
	}
}

// Load builds the configuration in increasing precedence: code
// defaults, then the YAML file (TAXI_CONFIG_FILE or ./config.yaml if
// present), then TAXI_-prefixed environment variables.
func Load() (*Config, error) {
	cfg := Default()

	configFile := os.Getenv("TAXI_CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("TAXI", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
