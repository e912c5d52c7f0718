package cleaning

// Constants for default values
const (
	// MissingPlaceholder replaces missing identity cells before key building
	MissingPlaceholder = "N/A"

	// Default quantile band for outlier filtering
	DefaultLowerQuantile = 0.01
	DefaultUpperQuantile = 0.99
)

// ResolverConfig configures the cancellation resolver. The field lists
// are ordered: identity fields build the composite ride key, monetary
// fields are checked for exact negation. FareField is the column whose
// leftover negative values are dropped after pair removal.
type ResolverConfig struct {
	IdentityFields []string `json:"identity_fields" yaml:"identity_fields"`
	MonetaryFields []string `json:"monetary_fields" yaml:"monetary_fields"`
	FareField      string   `json:"fare_field" yaml:"fare_field"`
}

// IsValid checks if the resolver configuration is usable
func (c ResolverConfig) IsValid() bool {
	if len(c.IdentityFields) == 0 || len(c.MonetaryFields) == 0 || c.FareField == "" {
		return false
	}
	for _, f := range c.MonetaryFields {
		if f == c.FareField {
			return true
		}
	}
	return false
}

// ResolveStats summarizes one resolver pass
type ResolveStats struct {
	InputRows       int `json:"input_rows"`
	MatchedPairs    int `json:"matched_pairs"`
	PairRowsRemoved int `json:"pair_rows_removed"`
	NegativeFares   int `json:"negative_fares_removed"`
	OutputRows      int `json:"output_rows"`
}

// MatchedPair references the two sides of an accepted cancellation
// pair by row index in the normalized input.
type MatchedPair struct {
	NegativeRow int `json:"negative_row"`
	PositiveRow int `json:"positive_row"`
}

// QuantileBand is the inclusive [Lower, Upper] quantile range used as
// an outlier cutoff.
type QuantileBand struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// DefaultQuantileBand returns the standard 1%/99% band
func DefaultQuantileBand() QuantileBand {
	return QuantileBand{Lower: DefaultLowerQuantile, Upper: DefaultUpperQuantile}
}

// IsValid checks if the band is within [0,1] with lower below upper
func (b QuantileBand) IsValid() bool {
	return b.Lower >= 0 && b.Upper <= 1 && b.Lower < b.Upper
}

// FilterStats summarizes one outlier-filter pass
type FilterStats struct {
	InputRows          int     `json:"input_rows"`
	NonPositiveRemoved int     `json:"non_positive_removed"`
	OutlierRemoved     int     `json:"outlier_removed"`
	OutputRows         int     `json:"output_rows"`
	DurationLower      float64 `json:"duration_lower"`
	DurationUpper      float64 `json:"duration_upper"`
	DistanceLower      float64 `json:"distance_lower"`
	DistanceUpper      float64 `json:"distance_upper"`
	RatioLower         float64 `json:"ratio_lower,omitempty"`
	RatioUpper         float64 `json:"ratio_upper,omitempty"`
}
