// Package dataprocessing parses raw TLC monthly trip CSV files into
// the in-memory tables the cleaning transforms operate on. Parsing is
// header-driven: columns are identified by name, numeric columns are
// parsed as float64, and empty cells become missing values.
package dataprocessing
