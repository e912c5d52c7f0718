// Package exporter writes cleaned trip tables and zone analytics to
// disk.
//
// CSVWriter handles tabular output with UTF-8 BOM for Excel
// compatibility and a streaming mode for large cleaned datasets.
// ReportWriter produces the multi-sheet Excel zone report (quantile
// tables and zone categories).
package exporter
