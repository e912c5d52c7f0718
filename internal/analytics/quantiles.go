package analytics

import (
	"taxicli/internal/cleaning"
	apperrors "taxicli/internal/errors"
)

// DefaultNeighborhoodQuantiles are the quartiles reported per
// neighborhood group.
func DefaultNeighborhoodQuantiles() []float64 {
	return []float64{0.25, 0.5, 0.75}
}

// QuantileTable is a quantile-by-neighborhood-group matrix for one
// numeric column, one value per quantile per group.
type QuantileTable struct {
	Column    string    `json:"column"`
	Quantiles []float64 `json:"quantiles"`
	Expensive []float64 `json:"expensive_neighborhoods"`
	Average   []float64 `json:"average_neighborhoods"`
	Cheap     []float64 `json:"cheap_neighborhoods"`
}

// NeighborhoodQuantiles computes the per-group quantiles of one column
// (fare_amount or tip_amount) across the expensive, average, and cheap
// neighborhood tables.
func NeighborhoodQuantiles(expensive, average, cheap cleaning.Table, col string, qs []float64) (QuantileTable, error) {
	out := QuantileTable{Column: col, Quantiles: qs}

	for _, t := range []cleaning.Table{expensive, average, cheap} {
		if !t.HasColumn(col) {
			return QuantileTable{}, apperrors.NewSchemaError(col)
		}
	}

	var err error
	if out.Expensive, err = groupQuantiles(expensive.FloatColumn(col), qs); err != nil {
		return QuantileTable{}, err
	}
	if out.Average, err = groupQuantiles(average.FloatColumn(col), qs); err != nil {
		return QuantileTable{}, err
	}
	if out.Cheap, err = groupQuantiles(cheap.FloatColumn(col), qs); err != nil {
		return QuantileTable{}, err
	}

	return out, nil
}

// groupQuantiles computes the quantiles of one neighborhood group. An
// empty group yields a nil row rather than an error, since a borough
// may legitimately have no zones in a category.
func groupQuantiles(values []float64, qs []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return cleaning.Quantiles(values, qs)
}

// FilterByZones returns the rows whose pickup or dropoff zone is in the
// given zone set, used to slice a cleaned table into neighborhood
// groups before quantile reporting.
func FilterByZones(t cleaning.Table, puCol, doCol string, zones []string) (cleaning.Table, error) {
	if missing, ok := t.RequireColumns([]string{puCol, doCol}); !ok {
		return cleaning.Table{}, apperrors.NewSchemaError(missing)
	}

	zoneSet := make(map[string]struct{}, len(zones))
	for _, z := range zones {
		zoneSet[z] = struct{}{}
	}

	out := cleaning.NewTable(t.Columns)
	for _, row := range t.Rows {
		pu, _ := row[puCol].(string)
		do, _ := row[doCol].(string)
		_, puIn := zoneSet[pu]
		_, doIn := zoneSet[do]
		if puIn || doIn {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}
