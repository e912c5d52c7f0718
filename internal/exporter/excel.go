package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"taxicli/internal/analytics"
)

// ZoneReport bundles the analytics outputs for one borough into a
// single Excel workbook.
type ZoneReport struct {
	Borough       string
	Categories    analytics.ZoneCategories
	FareQuantiles analytics.QuantileTable
	TipQuantiles  analytics.QuantileTable
	SameZone      *analytics.SameZoneShare
}

// ReportWriter writes zone analytics workbooks
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a new report writer instance
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger}
}

// WriteZoneReport writes the workbook with one sheet per analytics
// table: fare quantiles, tip quantiles, and zone categories.
func (w *ReportWriter) WriteZoneReport(fullPath string, report ZoneReport) error {
	w.logger.Info("writing zone report",
		slog.String("path", fullPath),
		slog.String("borough", report.Borough))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const fareSheet = "Fare Quantiles"
	if err := f.SetSheetName("Sheet1", fareSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeQuantileSheet(f, fareSheet, report.FareQuantiles); err != nil {
		return err
	}

	const tipSheet = "Tip Quantiles"
	if _, err := f.NewSheet(tipSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeQuantileSheet(f, tipSheet, report.TipQuantiles); err != nil {
		return err
	}

	const zoneSheet = "Zone Categories"
	if _, err := f.NewSheet(zoneSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeCategorySheet(f, zoneSheet, report); err != nil {
		return err
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

func writeQuantileSheet(f *excelize.File, sheet string, table analytics.QuantileTable) error {
	headers := []interface{}{"Quantile", "expensive_neighborhoods", "average_neighborhoods", "cheap_neighborhoods"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, q := range table.Quantiles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		row := []interface{}{q, quantileCell(table.Expensive, i), quantileCell(table.Average, i), quantileCell(table.Cheap, i)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write quantile row: %w", err)
		}
	}
	return nil
}

// quantileCell reads one group value, leaving the cell blank for
// groups that had no zones.
func quantileCell(group []float64, i int) interface{} {
	if i >= len(group) {
		return nil
	}
	return group[i]
}

func writeCategorySheet(f *excelize.File, sheet string, report ZoneReport) error {
	headers := []interface{}{"pricier_zones", "average_zones", "cheaper_zones"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	columns := [][]string{report.Categories.Pricey, report.Categories.Average, report.Categories.Cheap}
	for colIdx, zones := range columns {
		for rowIdx, zone := range zones {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, zone); err != nil {
				return fmt.Errorf("failed to write zone cell: %w", err)
			}
		}
	}

	if report.SameZone != nil {
		offset := maxLen(columns) + 3
		labelCell, err := excelize.CoordinatesToCellName(1, offset)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		label := fmt.Sprintf("%% of same zone rides within %s", report.Borough)
		row := []interface{}{label, report.SameZone.WithinPercent}
		if err := f.SetSheetRow(sheet, labelCell, &row); err != nil {
			return fmt.Errorf("failed to write same-zone row: %w", err)
		}

		labelCell, err = excelize.CoordinatesToCellName(1, offset+1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		label = fmt.Sprintf("%% of same zone rides involving %s", report.Borough)
		row = []interface{}{label, report.SameZone.InvolvedPercent}
		if err := f.SetSheetRow(sheet, labelCell, &row); err != nil {
			return fmt.Errorf("failed to write same-zone row: %w", err)
		}
	}

	return nil
}

func maxLen(lists [][]string) int {
	longest := 0
	for _, l := range lists {
		if len(l) > longest {
			longest = len(l)
		}
	}
	return longest
}
