// Package cleaning implements the trip-record cleaning transforms for
// NYC TLC yellow-cab data.
//
// Raw monthly trip files carry billing noise: a cancelled or refunded
// ride appears as two rows with identical ride attributes and exactly
// offsetting monetary fields, and sensor glitches produce non-positive
// or extreme durations and distances. This package removes both kinds
// of noise and leaves an analysis-ready table.
//
// # Components
//
//   - table.go: the in-memory row/column table the transforms operate on
//   - cancellations.go: offset-pair matching and removal (Resolver)
//   - outliers.go: positivity and quantile-band filtering
//   - quantile.go: linear-interpolation quantiles over sorted values
//   - types.go: configuration structs, defaults, and run statistics
//
// All transforms are pure and deterministic: they never mutate the
// input table and either return a complete result or fail with a typed
// error from taxicli/internal/errors.
package cleaning
