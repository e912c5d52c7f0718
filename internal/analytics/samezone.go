package analytics

import (
	"taxicli/internal/cleaning"
	apperrors "taxicli/internal/errors"
)

// SameZoneShare holds the share of same-zone rides for a borough
type SameZoneShare struct {
	SameZoneRides   int     `json:"same_zone_rides"`
	WithinPercent   float64 `json:"within_percent"`   // vs rides strictly within the borough
	InvolvedPercent float64 `json:"involved_percent"` // vs all rides involving the borough
}

// ComputeSameZoneShare computes what percentage of rides start and end
// in the same zone, both relative to the borough-internal table and to
// the total count of rides involving that borough. Missing zone cells
// never count as a same-zone match.
func ComputeSameZoneShare(borough cleaning.Table, puCol, doCol string, involvedRides int) (SameZoneShare, error) {
	if missing, ok := borough.RequireColumns([]string{puCol, doCol}); !ok {
		return SameZoneShare{}, apperrors.NewSchemaError(missing)
	}
	if borough.Len() == 0 || involvedRides == 0 {
		return SameZoneShare{}, apperrors.NewEmptyInputError("same-zone share")
	}

	same := 0
	for _, row := range borough.Rows {
		pu, puOK := row[puCol].(string)
		do, doOK := row[doCol].(string)
		if puOK && doOK && pu != "" && pu == do {
			same++
		}
	}

	return SameZoneShare{
		SameZoneRides:   same,
		WithinPercent:   float64(same) / float64(borough.Len()) * 100,
		InvolvedPercent: float64(same) / float64(involvedRides) * 100,
	}, nil
}
