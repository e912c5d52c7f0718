package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "taxicli"
	AppVersion = "1.2.0"

	// Default filesystem layout (relative to the working directory)
	DefaultDataDir      = "data"
	DefaultDownloadsDir = "data/downloads"
	DefaultReportsDir   = "data/reports"
	DefaultLogsDir      = "logs"

	// Well-known output files
	CleanedTripsCSV  = "cleaned_trips.csv"
	ZoneReportXLSX   = "zone_report.xlsx"
	CleanSummaryJSON = "clean_summary.json"

	// TLC monthly trip file naming
	TripFilePrefix = "yellow_tripdata_"
	TripFileExt    = ".csv"

	// Fetch defaults
	DefaultTripDataBaseURL = "https://d37ci6vzurychx.cloudfront.net/trip-data"
	DefaultHTTPTimeout     = 60 * time.Second
	DefaultFetchRPS        = 1.0
	DefaultFetchBurst      = 1
)
