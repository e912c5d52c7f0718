package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taxicli/internal/errors"
)

func TestQuantile_LinearInterpolation(t *testing.T) {
	oneToHundred := make([]float64, 100)
	for i := range oneToHundred {
		oneToHundred[i] = float64(i + 1)
	}

	tests := []struct {
		name     string
		values   []float64
		q        float64
		expected float64
	}{
		{"median of even count interpolates", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"median of odd count is exact", []float64{1, 2, 3}, 0.5, 2},
		{"q=0 is minimum", []float64{5, 1, 9}, 0, 1},
		{"q=1 is maximum", []float64{5, 1, 9}, 1, 9},
		{"single value", []float64{7}, 0.25, 7},
		{"lower percentile of 1..100", oneToHundred, 0.01, 1.99},
		{"upper percentile of 1..100", oneToHundred, 0.99, 99.01},
		{"quarter of 1..5", []float64{1, 2, 3, 4, 5}, 0.25, 2},
		{"unsorted input is sorted first", []float64{9, 1, 5}, 0.5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quantile(tt.values, tt.q)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestQuantile_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Quantile(nil, 0.5)
		require.Error(t, err)
		assert.True(t, apperrors.IsEmptyInputError(err))
	})

	t.Run("q below zero", func(t *testing.T) {
		_, err := Quantile([]float64{1}, -0.1)
		require.Error(t, err)
		assert.True(t, apperrors.IsConfigError(err))
	})

	t.Run("q above one", func(t *testing.T) {
		_, err := Quantile([]float64{1}, 1.1)
		require.Error(t, err)
		assert.True(t, apperrors.IsConfigError(err))
	})
}

func TestQuantile_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, err := Quantile(values, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestQuantiles_Multiple(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	got, err := Quantiles(values, []float64{0.25, 0.5, 0.75})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, got)
}

func TestQuantiles_Errors(t *testing.T) {
	t.Run("invalid quantile fails before sorting", func(t *testing.T) {
		_, err := Quantiles([]float64{1, 2}, []float64{0.5, 2})
		require.Error(t, err)
		assert.True(t, apperrors.IsConfigError(err))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Quantiles([]float64{}, []float64{0.5})
		require.Error(t, err)
		assert.True(t, apperrors.IsEmptyInputError(err))
	})
}
