package operations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"taxicli/internal/analytics"
	"taxicli/internal/cleaning"
	"taxicli/internal/dataprocessing"
	apperrors "taxicli/internal/errors"
	"taxicli/internal/exporter"
	"taxicli/internal/files"
	"taxicli/internal/infrastructure"
	"taxicli/pkg/contracts/domain"
)

// DiscoverStep finds the monthly trip files to process
type DiscoverStep struct {
	logger *slog.Logger
}

// NewDiscoverStep creates the file discovery step
func NewDiscoverStep(logger *slog.Logger) *DiscoverStep {
	return &DiscoverStep{logger: logger}
}

func (s *DiscoverStep) ID() string   { return StepIDDiscover }
func (s *DiscoverStep) Name() string { return "Discover trip files" }

func (s *DiscoverStep) Validate(state *PipelineState) error {
	if state.Paths == nil {
		return apperrors.NewConfigError("paths are not configured", nil)
	}
	return nil
}

func (s *DiscoverStep) Execute(ctx context.Context, state *PipelineState) error {
	discovery := files.NewDiscovery(state.Paths.DataDir)

	var (
		found []files.TripFile
		err   error
	)
	if len(state.Months) > 0 {
		var missing []string
		found, missing, err = discovery.FindMonths(state.Paths.DownloadsDir, state.Months)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperrors.NewNotFoundError("trip files for " + strings.Join(missing, ", "))
		}
	} else {
		found, err = discovery.FindTripFiles(state.Paths.DownloadsDir)
		if err != nil {
			return err
		}
	}

	if len(found) == 0 {
		return apperrors.NewEmptyInputError("trip file discovery")
	}

	state.Files = found
	state.Summary.SourceFiles = files.Paths(found)

	s.logger.InfoContext(ctx, "trip files discovered",
		slog.Int("files", len(found)),
		slog.String("first_month", found[0].Month),
		slog.String("last_month", found[len(found)-1].Month))

	return nil
}

// ParseStep parses the discovered files into one concatenated table
type ParseStep struct {
	parser  *dataprocessing.Parser
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewParseStep creates the CSV parsing step
func NewParseStep(parser *dataprocessing.Parser, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *ParseStep {
	return &ParseStep{parser: parser, metrics: metrics, logger: logger}
}

func (s *ParseStep) ID() string   { return StepIDParse }
func (s *ParseStep) Name() string { return "Parse trip files" }

func (s *ParseStep) Validate(state *PipelineState) error {
	if len(state.Files) == 0 {
		return apperrors.NewEmptyInputError("trip file parsing")
	}
	return nil
}

func (s *ParseStep) Execute(ctx context.Context, state *PipelineState) error {
	table, err := s.parser.ParseFiles(ctx, files.Paths(state.Files))
	if err != nil {
		return err
	}

	state.Raw = table
	state.Summary.InputRows = table.Len()

	// Record-level profile: suspect rows and the payment mix are
	// reported in the summary, never removed here.
	profile := dataprocessing.ProfileTable(table)
	state.Summary.SuspectRows = profile.SuspectRows
	state.Summary.PaymentCounts = profile.Payments

	if s.metrics != nil {
		s.metrics.FilesParsed.Add(ctx, int64(len(state.Files)))
		s.metrics.RowsParsed.Add(ctx, int64(table.Len()))
	}

	s.logger.InfoContext(ctx, "trip files parsed",
		slog.Int("files", len(state.Files)),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)),
		slog.Int("suspect_rows", profile.SuspectRows),
		slog.Float64("mean_tip_ratio", profile.MeanTipRatio))

	return nil
}

// CancellationsStep removes cancelled fare pairs and leftover negative
// fares from the parsed table
type CancellationsStep struct {
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewCancellationsStep creates the cancellation resolution step
func NewCancellationsStep(metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *CancellationsStep {
	return &CancellationsStep{metrics: metrics, logger: logger}
}

func (s *CancellationsStep) ID() string   { return StepIDCancellations }
func (s *CancellationsStep) Name() string { return "Resolve cancelled fares" }

func (s *CancellationsStep) Validate(state *PipelineState) error {
	if state.Config == nil {
		return apperrors.NewConfigError("cleaning is not configured", nil)
	}
	return nil
}

func (s *CancellationsStep) Execute(ctx context.Context, state *PipelineState) error {
	cfg := state.Config.Cleaning
	resolver, err := cleaning.NewResolver(cleaning.ResolverConfig{
		IdentityFields: cfg.IdentityFields,
		MonetaryFields: cfg.MonetaryFields,
		FareField:      cfg.FareField,
	}, s.logger)
	if err != nil {
		return err
	}

	cleaned, stats, err := resolver.Resolve(ctx, state.Raw)
	if err != nil {
		return err
	}

	state.Cleaned = cleaned
	state.Summary.CancelledPairs = stats.MatchedPairs
	state.Summary.PairRowsRemoved = stats.PairRowsRemoved
	state.Summary.NegativeFares = stats.NegativeFares

	if s.metrics != nil {
		removed := int64(stats.PairRowsRemoved + stats.NegativeFares)
		s.metrics.RowsRemoved.Add(ctx, removed)
	}

	return nil
}

// OutliersStep drops non-positive trips and quantile outliers
type OutliersStep struct {
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewOutliersStep creates the outlier filtering step
func NewOutliersStep(metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *OutliersStep {
	return &OutliersStep{metrics: metrics, logger: logger}
}

func (s *OutliersStep) ID() string   { return StepIDOutliers }
func (s *OutliersStep) Name() string { return "Filter outlier trips" }

func (s *OutliersStep) Validate(state *PipelineState) error {
	if state.Config == nil {
		return apperrors.NewConfigError("cleaning is not configured", nil)
	}
	band := cleaning.QuantileBand{
		Lower: state.Config.Cleaning.LowerQuantile,
		Upper: state.Config.Cleaning.UpperQuantile,
	}
	if !band.IsValid() {
		return apperrors.NewConfigError(
			fmt.Sprintf("invalid quantile band [%g, %g]", band.Lower, band.Upper), nil)
	}
	return nil
}

func (s *OutliersStep) Execute(ctx context.Context, state *PipelineState) error {
	cfg := state.Config.Cleaning
	band := cleaning.QuantileBand{Lower: cfg.LowerQuantile, Upper: cfg.UpperQuantile}

	filtered, stats, err := cleaning.FilterOutliers(state.Cleaned, cfg.DurationField, cfg.DistanceField, band)
	if err != nil {
		return err
	}

	state.Cleaned = filtered
	state.Summary.NonPositiveRows = stats.NonPositiveRemoved
	state.Summary.OutlierRows = stats.OutlierRemoved
	state.Summary.OutputRows = filtered.Len()

	if s.metrics != nil {
		removed := int64(stats.NonPositiveRemoved + stats.OutlierRemoved)
		s.metrics.RowsRemoved.Add(ctx, removed)
	}

	s.logger.InfoContext(ctx, "outliers filtered",
		slog.Int("non_positive_removed", stats.NonPositiveRemoved),
		slog.Int("outlier_removed", stats.OutlierRemoved),
		slog.Float64("duration_lower", stats.DurationLower),
		slog.Float64("duration_upper", stats.DurationUpper),
		slog.Float64("distance_lower", stats.DistanceLower),
		slog.Float64("distance_upper", stats.DistanceUpper))

	return nil
}

// TipRatioStep drops trips with extreme tip-to-fare ratios. The pass
// is off by default and runs only when the cleaning config enables it.
type TipRatioStep struct {
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewTipRatioStep creates the optional tip ratio filtering step
func NewTipRatioStep(metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *TipRatioStep {
	return &TipRatioStep{metrics: metrics, logger: logger}
}

func (s *TipRatioStep) ID() string   { return StepIDTipRatio }
func (s *TipRatioStep) Name() string { return "Filter tip ratio outliers" }

func (s *TipRatioStep) Validate(state *PipelineState) error {
	if state.Config == nil {
		return apperrors.NewConfigError("cleaning is not configured", nil)
	}
	if !state.Config.Cleaning.TipRatioFilter {
		return nil
	}
	band := cleaning.QuantileBand{
		Lower: state.Config.Cleaning.LowerQuantile,
		Upper: state.Config.Cleaning.UpperQuantile,
	}
	if !band.IsValid() {
		return apperrors.NewConfigError(
			fmt.Sprintf("invalid quantile band [%g, %g]", band.Lower, band.Upper), nil)
	}
	return nil
}

func (s *TipRatioStep) Execute(ctx context.Context, state *PipelineState) error {
	cfg := state.Config.Cleaning
	if !cfg.TipRatioFilter {
		s.logger.DebugContext(ctx, "tip ratio filter disabled")
		return nil
	}

	band := cleaning.QuantileBand{Lower: cfg.LowerQuantile, Upper: cfg.UpperQuantile}
	filtered, stats, err := cleaning.FilterRatioOutliers(state.Cleaned, cfg.TipField, cfg.FareField, band)
	if err != nil {
		return err
	}

	removed := stats.NonPositiveRemoved + stats.OutlierRemoved
	state.Cleaned = filtered
	state.Summary.TipOutlierRows = removed
	state.Summary.OutputRows = filtered.Len()

	if s.metrics != nil {
		s.metrics.RowsRemoved.Add(ctx, int64(removed))
	}

	s.logger.InfoContext(ctx, "tip ratio outliers filtered",
		slog.Int("removed", removed),
		slog.Float64("ratio_lower", stats.RatioLower),
		slog.Float64("ratio_upper", stats.RatioUpper))

	return nil
}

// AnalyticsStep derives zone categories, same-zone shares, and fare/tip
// quantile tables from the cleaned table
type AnalyticsStep struct {
	borough string
	logger  *slog.Logger
}

// NewAnalyticsStep creates the zone analytics step. The borough label
// only names the report; the cleaned table is assumed to already be
// scoped to the rides of interest.
func NewAnalyticsStep(borough string, logger *slog.Logger) *AnalyticsStep {
	if borough == "" {
		borough = "All"
	}
	return &AnalyticsStep{borough: borough, logger: logger}
}

func (s *AnalyticsStep) ID() string   { return StepIDAnalytics }
func (s *AnalyticsStep) Name() string { return "Derive zone analytics" }

func (s *AnalyticsStep) Validate(state *PipelineState) error {
	return nil
}

func (s *AnalyticsStep) Execute(ctx context.Context, state *PipelineState) error {
	report, err := BuildZoneReport(ctx, state.Cleaned, s.borough, s.logger)
	if err != nil {
		return err
	}
	state.Report = report
	return nil
}

// BuildZoneReport computes the full zone analytics report for a table.
// Returns a nil report without error when the table lacks zone columns,
// since raw TLC files do not carry zone names.
func BuildZoneReport(ctx context.Context, t cleaning.Table, borough string, logger *slog.Logger) (*exporter.ZoneReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	zoneCols := []string{domain.ColPickupZone, domain.ColDropoffZone}
	if missing, ok := t.RequireColumns(zoneCols); !ok {
		logger.WarnContext(ctx, "zone analytics skipped",
			slog.String("missing_column", missing))
		return nil, nil
	}
	if t.Len() == 0 {
		return nil, apperrors.NewEmptyInputError("zone analytics")
	}

	pickup, err := analytics.ZoneAverageFares(t, domain.ColPickupZone, domain.ColFareAmount)
	if err != nil {
		return nil, err
	}
	dropoff, err := analytics.ZoneAverageFares(t, domain.ColDropoffZone, domain.ColFareAmount)
	if err != nil {
		return nil, err
	}

	avgFare := meanOf(t.FloatColumn(domain.ColFareAmount))
	cats := analytics.CategorizeZones(pickup, dropoff, avgFare)

	expensive, err := analytics.FilterByZones(t, domain.ColPickupZone, domain.ColDropoffZone, cats.Pricey)
	if err != nil {
		return nil, err
	}
	average, err := analytics.FilterByZones(t, domain.ColPickupZone, domain.ColDropoffZone, cats.Average)
	if err != nil {
		return nil, err
	}
	cheap, err := analytics.FilterByZones(t, domain.ColPickupZone, domain.ColDropoffZone, cats.Cheap)
	if err != nil {
		return nil, err
	}

	qs := analytics.DefaultNeighborhoodQuantiles()
	fareQuantiles, err := analytics.NeighborhoodQuantiles(expensive, average, cheap, domain.ColFareAmount, qs)
	if err != nil {
		return nil, err
	}
	tipQuantiles, err := analytics.NeighborhoodQuantiles(expensive, average, cheap, domain.ColTipAmount, qs)
	if err != nil {
		return nil, err
	}

	report := &exporter.ZoneReport{
		Borough:       borough,
		Categories:    cats,
		FareQuantiles: fareQuantiles,
		TipQuantiles:  tipQuantiles,
	}

	sameZone, err := analytics.ComputeSameZoneShare(t, domain.ColPickupZone, domain.ColDropoffZone, t.Len())
	if err == nil {
		report.SameZone = &sameZone
	} else if !apperrors.IsEmptyInputError(err) {
		return nil, err
	}

	logger.InfoContext(ctx, "zone analytics derived",
		slog.String("borough", borough),
		slog.Int("pricey_zones", len(cats.Pricey)),
		slog.Int("cheap_zones", len(cats.Cheap)),
		slog.Int("average_zones", len(cats.Average)),
		slog.Float64("borough_avg_fare", avgFare))

	return report, nil
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// ExportStep writes the cleaned table, the zone report, and the run
// summary to the reports directory
type ExportStep struct {
	csv    *exporter.CSVWriter
	report *exporter.ReportWriter
	logger *slog.Logger
}

// NewExportStep creates the export step
func NewExportStep(csv *exporter.CSVWriter, report *exporter.ReportWriter, logger *slog.Logger) *ExportStep {
	return &ExportStep{csv: csv, report: report, logger: logger}
}

func (s *ExportStep) ID() string   { return StepIDExport }
func (s *ExportStep) Name() string { return "Export cleaned data" }

func (s *ExportStep) Validate(state *PipelineState) error {
	if state.Paths == nil {
		return apperrors.NewConfigError("paths are not configured", nil)
	}
	return nil
}

func (s *ExportStep) Execute(ctx context.Context, state *PipelineState) error {
	csvPath := state.Paths.CleanedCSVPath()
	if err := s.csv.WriteTable(csvPath, state.Cleaned, domain.DisplayColumns()); err != nil {
		return err
	}
	state.Summary.OutputFile = csvPath

	if state.Report != nil {
		reportPath := state.Paths.ZoneReportPath()
		if err := s.report.WriteZoneReport(reportPath, *state.Report); err != nil {
			return err
		}
		state.Summary.ReportFile = reportPath
	}

	// Stamp the duration now so the persisted summary is complete; the
	// manager re-stamps after this step returns.
	state.Summary.Finish()
	if err := writeSummary(state.Paths.SummaryPath(), state.Summary); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "pipeline outputs written",
		slog.String("cleaned_csv", state.Summary.OutputFile),
		slog.String("zone_report", state.Summary.ReportFile),
		slog.Int("rows", state.Cleaned.Len()))

	return nil
}

// writeSummary persists the run summary as indented JSON
func writeSummary(path string, summary *domain.CleanSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("marshal summary", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewStorageError("write summary", err)
	}
	return nil
}

// NewPipelineSteps builds the standard cleaning pipeline step sequence
func NewPipelineSteps(logger *slog.Logger, metrics *infrastructure.PipelineMetrics, borough string) []Step {
	parser := dataprocessing.NewParser(logger, runtime.NumCPU())
	return []Step{
		NewDiscoverStep(logger),
		NewParseStep(parser, metrics, logger),
		NewCancellationsStep(metrics, logger),
		NewOutliersStep(metrics, logger),
		NewTipRatioStep(metrics, logger),
		NewAnalyticsStep(borough, logger),
		NewExportStep(exporter.NewCSVWriter(logger), exporter.NewReportWriter(logger), logger),
	}
}
