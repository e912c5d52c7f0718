package exporter

import (
	"fmt"
	"strconv"

	"taxicli/internal/cleaning"
)

// FormatPercent formats a percentage with 2 decimal places and a % sign
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// formatCell renders a table cell for CSV output. Numeric identity
// columns (counts, codes) keep their shortest representation; monetary
// and measure values keep full precision so a re-parse round-trips.
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// RearrangeColumns moves the leading columns to the front (in their
// given order, where present) and keeps the remaining columns in their
// original order.
func RearrangeColumns(columns, leading []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	out := make([]string, 0, len(columns))
	taken := make(map[string]bool, len(leading))
	for _, c := range leading {
		if present[c] && !taken[c] {
			out = append(out, c)
			taken[c] = true
		}
	}
	for _, c := range columns {
		if !taken[c] {
			out = append(out, c)
		}
	}
	return out
}

// TableRecords renders table rows as CSV records in the given column
// order.
func TableRecords(t cleaning.Table, columns []string) [][]string {
	records := make([][]string, 0, t.Len())
	for _, row := range t.Rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = formatCell(row[col])
		}
		records = append(records, record)
	}
	return records
}
