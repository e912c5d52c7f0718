package cleaning

import (
	"fmt"
	"math"
	"sort"

	apperrors "taxicli/internal/errors"
)

// Quantile computes the q-quantile of values using linear interpolation
// between order statistics: for n sorted values the cutoff sits at
// position q*(n-1). This matches the conventional "linear" definition,
// so cutoffs are reproducible across implementations.
func Quantile(values []float64, q float64) (float64, error) {
	if q < 0 || q > 1 {
		return 0, apperrors.NewConfigError(fmt.Sprintf("quantile %v outside [0,1]", q), nil)
	}
	if len(values) == 0 {
		return 0, apperrors.NewEmptyInputError("quantile computation")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return quantileSorted(sorted, q), nil
}

// quantileSorted interpolates over an already-sorted non-empty slice
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quantiles computes several quantiles over one sort of the input
func Quantiles(values []float64, qs []float64) ([]float64, error) {
	for _, q := range qs {
		if q < 0 || q > 1 {
			return nil, apperrors.NewConfigError(fmt.Sprintf("quantile %v outside [0,1]", q), nil)
		}
	}
	if len(values) == 0 {
		return nil, apperrors.NewEmptyInputError("quantile computation")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = quantileSorted(sorted, q)
	}
	return out, nil
}
