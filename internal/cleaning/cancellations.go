package cleaning

import (
	"context"
	"log/slog"

	apperrors "taxicli/internal/errors"
)

// Resolver detects and removes cancelled/refunded ride pairs: two rows
// sharing the same identity key whose monetary fields are exact
// negations of each other.
type Resolver struct {
	cfg    ResolverConfig
	logger *slog.Logger
}

// NewResolver creates a resolver for the given field configuration
func NewResolver(cfg ResolverConfig, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.IsValid() {
		return nil, apperrors.NewConfigError(
			"resolver requires identity fields, monetary fields, and a fare field listed among the monetary fields", nil)
	}
	return &Resolver{cfg: cfg, logger: logger}, nil
}

// Resolve returns the rows that are not part of any matched
// cancellation pair, additionally dropping rows whose fare is still
// negative after pair removal. The input table is not mutated; output
// rows carry normalized values (identity placeholder, zeroed fees).
//
// Empty input yields an empty table, not an error. A configured field
// missing from the schema is a schema error with no partial result.
func (r *Resolver) Resolve(ctx context.Context, t Table) (Table, *ResolveStats, error) {
	stats := &ResolveStats{InputRows: t.Len()}
	out := NewTable(t.Columns)

	if t.Len() == 0 {
		return out, stats, nil
	}

	required := make([]string, 0, len(r.cfg.IdentityFields)+len(r.cfg.MonetaryFields))
	required = append(required, r.cfg.IdentityFields...)
	required = append(required, r.cfg.MonetaryFields...)
	if missing, ok := t.RequireColumns(required); !ok {
		return Table{}, nil, apperrors.NewSchemaError(missing)
	}

	rows := r.normalize(t.Rows)
	pairs := r.matchPairs(rows)

	// Index-set removal: a row is removed once no matter how many
	// accepted pairs reference it.
	removed := make(map[int]struct{}, len(pairs)*2)
	for _, p := range pairs {
		removed[p.NegativeRow] = struct{}{}
		removed[p.PositiveRow] = struct{}{}
	}
	stats.MatchedPairs = len(pairs)
	stats.PairRowsRemoved = len(removed)

	for i, row := range rows {
		if _, gone := removed[i]; gone {
			continue
		}
		if fare, ok := row.Float(r.cfg.FareField); ok && fare < 0 {
			stats.NegativeFares++
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	stats.OutputRows = len(out.Rows)

	r.logger.InfoContext(ctx, "resolved cancelled fare pairs",
		slog.Int("input_rows", stats.InputRows),
		slog.Int("matched_pairs", stats.MatchedPairs),
		slog.Int("pair_rows_removed", stats.PairRowsRemoved),
		slog.Int("negative_fares_removed", stats.NegativeFares),
		slog.Int("output_rows", stats.OutputRows),
	)

	return out, stats, nil
}

// normalize copies the rows, replacing missing identity cells with the
// placeholder token and missing monetary cells with zero.
func (r *Resolver) normalize(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		c := row.Clone()
		for _, col := range r.cfg.IdentityFields {
			if v, exists := c[col]; !exists || v == nil {
				c[col] = MissingPlaceholder
			}
		}
		for _, col := range r.cfg.MonetaryFields {
			if _, ok := c.Float(col); !ok {
				c[col] = 0.0
			}
		}
		out[i] = c
	}
	return out
}

// matchPairs partitions rows into a negative group (any monetary field
// below zero) and a positive group (any above zero), equi-joins the
// groups on the identity key, and accepts every joined combination
// whose monetary fields are exact negations.
//
// Duplicate keys make the join a cross product within the key bucket,
// so ambiguous duplicates can produce more accepted pairs than rows;
// removal stays index-based, so each row still disappears exactly once.
func (r *Resolver) matchPairs(rows []Row) []MatchedPair {
	posByKey := make(map[string][]int)
	var negRows []int

	for i, row := range rows {
		neg, pos := r.signs(row)
		if pos {
			key := identityKey(row, r.cfg.IdentityFields)
			posByKey[key] = append(posByKey[key], i)
		}
		if neg {
			negRows = append(negRows, i)
		}
	}

	var pairs []MatchedPair
	for _, ni := range negRows {
		key := identityKey(rows[ni], r.cfg.IdentityFields)
		for _, pi := range posByKey[key] {
			if r.exactNegation(rows[ni], rows[pi]) {
				pairs = append(pairs, MatchedPair{NegativeRow: ni, PositiveRow: pi})
			}
		}
	}
	return pairs
}

// signs reports whether any monetary field of the row is negative or
// positive. A row with mixed signs belongs to both groups.
func (r *Resolver) signs(row Row) (neg, pos bool) {
	for _, col := range r.cfg.MonetaryFields {
		v, _ := row.Float(col)
		if v < 0 {
			neg = true
		}
		if v > 0 {
			pos = true
		}
	}
	return neg, pos
}

// exactNegation checks that every monetary field of the negative side
// equals the exact negation of the positive side. Equality is exact
// float64 comparison: monetary values are expected to arrive in a
// canonical fixed-precision form, and an epsilon here would turn the
// offset check into a guess.
func (r *Resolver) exactNegation(negRow, posRow Row) bool {
	for _, col := range r.cfg.MonetaryFields {
		nv, _ := negRow.Float(col)
		pv, _ := posRow.Float(col)
		if nv != -pv {
			return false
		}
	}
	return true
}
