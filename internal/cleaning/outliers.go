package cleaning

import (
	"fmt"

	apperrors "taxicli/internal/errors"
)

// FilterOutliers removes rows with non-positive duration or distance,
// then removes rows falling outside the inclusive quantile band of the
// remaining values. The band is computed after the positivity filter,
// never over the raw input, so negative sentinels cannot drag the
// cutoffs down.
//
// A band outside [0,1] or with lower >= upper is a config error before
// any computation. If the positivity filter leaves zero rows, the
// quantile cutoffs are undefined and an empty-input error is returned
// rather than silently wrong bounds.
func FilterOutliers(t Table, durationField, distanceField string, band QuantileBand) (Table, *FilterStats, error) {
	if !band.IsValid() {
		return Table{}, nil, apperrors.NewConfigError(
			fmt.Sprintf("invalid quantile band: lower=%v, upper=%v", band.Lower, band.Upper), nil)
	}
	if missing, ok := t.RequireColumns([]string{durationField, distanceField}); !ok {
		return Table{}, nil, apperrors.NewSchemaError(missing)
	}

	stats := &FilterStats{InputRows: t.Len()}

	// Positivity filter first; missing cells never pass.
	positive := NewTable(t.Columns)
	for _, row := range t.Rows {
		dur, durOK := row.Float(durationField)
		dist, distOK := row.Float(distanceField)
		if durOK && distOK && dur > 0 && dist > 0 {
			positive.Rows = append(positive.Rows, row)
		}
	}
	stats.NonPositiveRemoved = t.Len() - positive.Len()

	if positive.Len() == 0 {
		return Table{}, nil, apperrors.NewEmptyInputError("quantile computation")
	}

	durBounds, err := Quantiles(positive.FloatColumn(durationField), []float64{band.Lower, band.Upper})
	if err != nil {
		return Table{}, nil, err
	}
	distBounds, err := Quantiles(positive.FloatColumn(distanceField), []float64{band.Lower, band.Upper})
	if err != nil {
		return Table{}, nil, err
	}
	stats.DurationLower, stats.DurationUpper = durBounds[0], durBounds[1]
	stats.DistanceLower, stats.DistanceUpper = distBounds[0], distBounds[1]

	out := NewTable(t.Columns)
	for _, row := range positive.Rows {
		dur, _ := row.Float(durationField)
		dist, _ := row.Float(distanceField)
		if dur >= stats.DurationLower && dur <= stats.DurationUpper &&
			dist >= stats.DistanceLower && dist <= stats.DistanceUpper {
			out.Rows = append(out.Rows, row)
		}
	}
	stats.OutlierRemoved = positive.Len() - out.Len()
	stats.OutputRows = out.Len()

	return out, stats, nil
}

// FilterRatioOutliers removes rows whose numerator/denominator ratio is
// extreme, for example excessive tip-to-fare ratios. Rows with a
// non-positive denominator are dropped first and the quantile band is
// computed over the surviving ratios, mirroring FilterOutliers.
func FilterRatioOutliers(t Table, numeratorField, denominatorField string, band QuantileBand) (Table, *FilterStats, error) {
	if !band.IsValid() {
		return Table{}, nil, apperrors.NewConfigError(
			fmt.Sprintf("invalid quantile band: lower=%v, upper=%v", band.Lower, band.Upper), nil)
	}
	if missing, ok := t.RequireColumns([]string{numeratorField, denominatorField}); !ok {
		return Table{}, nil, apperrors.NewSchemaError(missing)
	}

	stats := &FilterStats{InputRows: t.Len()}

	positive := NewTable(t.Columns)
	ratios := make([]float64, 0, t.Len())
	for _, row := range t.Rows {
		num, numOK := row.Float(numeratorField)
		den, denOK := row.Float(denominatorField)
		if numOK && denOK && den > 0 {
			positive.Rows = append(positive.Rows, row)
			ratios = append(ratios, num/den)
		}
	}
	stats.NonPositiveRemoved = t.Len() - positive.Len()

	if positive.Len() == 0 {
		return Table{}, nil, apperrors.NewEmptyInputError("quantile computation")
	}

	bounds, err := Quantiles(ratios, []float64{band.Lower, band.Upper})
	if err != nil {
		return Table{}, nil, err
	}

	out := NewTable(t.Columns)
	for i, row := range positive.Rows {
		if ratios[i] >= bounds[0] && ratios[i] <= bounds[1] {
			out.Rows = append(out.Rows, row)
		}
	}
	stats.OutlierRemoved = positive.Len() - out.Len()
	stats.OutputRows = out.Len()
	stats.RatioLower, stats.RatioUpper = bounds[0], bounds[1]

	return out, stats, nil
}
