// Package operations orchestrates the trip data cleaning pipeline.
//
// A pipeline run is a fixed sequence of steps executed by the Manager:
// discover raw files, parse them into a table, resolve cancelled fares,
// filter quantile outliers, compute zone analytics, and export the
// cleaned data and reports. Steps share a PipelineState and report
// progress through StepState. The Manager records per-step timings,
// OpenTelemetry spans, and the run summary.
package operations
