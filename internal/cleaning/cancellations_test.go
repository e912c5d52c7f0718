package cleaning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taxicli/internal/errors"
)

var testResolverConfig = ResolverConfig{
	IdentityFields: []string{"VendorID", "PU_datetime", "PULocationID"},
	MonetaryFields: []string{"fare_amount", "tip_amount"},
	FareField:      "fare_amount",
}

func testColumns() []string {
	return []string{"VendorID", "PU_datetime", "PULocationID", "fare_amount", "tip_amount"}
}

func rideRow(vendor, pickup, zone string, fare, tip float64) Row {
	return Row{
		"VendorID":     vendor,
		"PU_datetime":  pickup,
		"PULocationID": zone,
		"fare_amount":  fare,
		"tip_amount":   tip,
	}
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(testResolverConfig, nil)
	require.NoError(t, err)
	return r
}

func TestNewResolver_ConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ResolverConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     testResolverConfig,
			wantErr: false,
		},
		{
			name: "no identity fields",
			cfg: ResolverConfig{
				MonetaryFields: []string{"fare_amount"},
				FareField:      "fare_amount",
			},
			wantErr: true,
		},
		{
			name: "no monetary fields",
			cfg: ResolverConfig{
				IdentityFields: []string{"VendorID"},
				FareField:      "fare_amount",
			},
			wantErr: true,
		},
		{
			name: "fare field not among monetary fields",
			cfg: ResolverConfig{
				IdentityFields: []string{"VendorID"},
				MonetaryFields: []string{"tip_amount"},
				FareField:      "fare_amount",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.cfg, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsConfigError(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestResolve_EmptyInput(t *testing.T) {
	r := newTestResolver(t)

	out, stats, err := r.Resolve(context.Background(), NewTable(testColumns()))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 0, stats.InputRows)
	assert.Equal(t, 0, stats.MatchedPairs)
}

func TestResolve_MissingColumnIsSchemaError(t *testing.T) {
	r := newTestResolver(t)

	table := NewTable([]string{"VendorID", "PU_datetime", "fare_amount", "tip_amount"})
	table.Rows = append(table.Rows, Row{"VendorID": "1", "fare_amount": 10.0})

	_, _, err := r.Resolve(context.Background(), table)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestResolve_RemovesOffsettingPair(t *testing.T) {
	r := newTestResolver(t)

	table := NewTable(testColumns())
	table.Rows = []Row{
		rideRow("1", "2025-01-03 10:00:00", "132", 12.50, 2.00),  // charge
		rideRow("1", "2025-01-03 10:00:00", "132", -12.50, -2.00), // refund
		rideRow("2", "2025-01-03 11:00:00", "68", 12.50, 0),      // unrelated, no match
	}

	out, stats, err := r.Resolve(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MatchedPairs)
	assert.Equal(t, 2, stats.PairRowsRemoved)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "2", out.Rows[0]["VendorID"])
}

func TestResolve_NegationMustBeExactInEveryField(t *testing.T) {
	r := newTestResolver(t)

	table := NewTable(testColumns())
	table.Rows = []Row{
		rideRow("1", "2025-01-03 10:00:00", "132", 12.50, 2.00),
		// Fare offsets but the tip does not: not a cancellation pair.
		rideRow("1", "2025-01-03 10:00:00", "132", -12.50, -1.00),
	}

	out, stats, err := r.Resolve(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.MatchedPairs)
	// The unmatched refund still carries a negative fare and is dropped.
	assert.Equal(t, 1, stats.NegativeFares)
	require.Equal(t, 1, out.Len())
	fare, ok := out.Rows[0].Float("fare_amount")
	require.True(t, ok)
	assert.Equal(t, 12.50, fare)
}

func TestResolve_AmbiguousDuplicatesAllRemoved(t *testing.T) {
	r := newTestResolver(t)

	// Two charges and two refunds on the same key, pairwise exact
	// negations in every combination. The join accepts four pairs and
	// index-set removal drops all four rows.
	table := NewTable(testColumns())
	table.Rows = []Row{
		rideRow("1", "2025-01-03 10:00:00", "132", 12.50, 0),
		rideRow("1", "2025-01-03 10:00:00", "132", 12.50, 0),
		rideRow("1", "2025-01-03 10:00:00", "132", -12.50, 0),
		rideRow("1", "2025-01-03 10:00:00", "132", -12.50, 0),
	}

	out, stats, err := r.Resolve(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.MatchedPairs)
	assert.Equal(t, 4, stats.PairRowsRemoved)
	assert.Equal(t, 0, out.Len())
}

func TestResolve_RowRemovedOnceAcrossOverlappingPairs(t *testing.T) {
	r := newTestResolver(t)

	// One refund matches two identical charges: both accepted pairs
	// share the refund row, which is still removed only once.
	table := NewTable(testColumns())
	table.Rows = []Row{
		rideRow("1", "2025-01-03 10:00:00", "132", -8.00, 0),
		rideRow("1", "2025-01-03 10:00:00", "132", 8.00, 0),
		rideRow("1", "2025-01-03 10:00:00", "132", 8.00, 0),
	}

	out, stats, err := r.Resolve(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.MatchedPairs)
	assert.Equal(t, 3, stats.PairRowsRemoved)
	assert.Equal(t, 0, out.Len())
}

func TestResolve_MissingValuesNormalized(t *testing.T) {
	r := newTestResolver(t)

	// Both sides miss VendorID and the refund misses its tip cell.
	// Identity placeholders and zeroed fees still line the pair up.
	table := NewTable(testColumns())
	table.Rows = []Row{
		{"VendorID": nil, "PU_datetime": "2025-01-03 10:00:00", "PULocationID": "132", "fare_amount": 9.00, "tip_amount": 0.0},
		{"VendorID": nil, "PU_datetime": "2025-01-03 10:00:00", "PULocationID": "132", "fare_amount": -9.00, "tip_amount": nil},
	}

	out, stats, err := r.Resolve(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MatchedPairs)
	assert.Equal(t, 0, out.Len())
}

func TestResolve_KeepsNegativeNonFareFees(t *testing.T) {
	r := newTestResolver(t)

	// A negative tip alone does not make the ride a leftover refund;
	// only the fare column gates the final negative sweep.
	table := NewTable(testColumns())
	table.Rows = []Row{
		rideRow("1", "2025-01-03 10:00:00", "132", 5.00, -1.00),
	}

	out, stats, err := r.Resolve(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.MatchedPairs)
	assert.Equal(t, 1, out.Len())
}

func TestResolve_Idempotent(t *testing.T) {
	r := newTestResolver(t)

	table := NewTable(testColumns())
	table.Rows = []Row{
		rideRow("1", "2025-01-03 10:00:00", "132", 12.50, 2.00),
		rideRow("1", "2025-01-03 10:00:00", "132", -12.50, -2.00),
		rideRow("2", "2025-01-03 11:00:00", "68", 20.00, 4.00),
		rideRow("2", "2025-01-03 12:00:00", "90", -3.00, 0),
	}

	once, _, err := r.Resolve(context.Background(), table)
	require.NoError(t, err)

	twice, stats, err := r.Resolve(context.Background(), once)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.MatchedPairs)
	assert.Equal(t, 0, stats.NegativeFares)
	require.Equal(t, once.Len(), twice.Len())
	for i := range once.Rows {
		assert.Equal(t, once.Rows[i], twice.Rows[i])
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	r := newTestResolver(t)

	table := NewTable(testColumns())
	table.Rows = []Row{
		{"VendorID": nil, "PU_datetime": "2025-01-03 10:00:00", "PULocationID": "132", "fare_amount": 9.00, "tip_amount": nil},
	}

	_, _, err := r.Resolve(context.Background(), table)
	require.NoError(t, err)

	assert.Nil(t, table.Rows[0]["VendorID"])
	assert.Nil(t, table.Rows[0]["tip_amount"])
}
