package analytics

import (
	"sort"

	"taxicli/internal/cleaning"
	apperrors "taxicli/internal/errors"
)

// ZoneFare is the average fare observed for one zone
type ZoneFare struct {
	Zone    string  `json:"zone"`
	AvgFare float64 `json:"avg_fare"`
	Rides   int     `json:"rides"`
}

// ZoneAverageFares groups the table by the zone column and averages the
// fare column per zone. Rows with a missing zone or fare cell are
// skipped. Results are sorted by zone name.
func ZoneAverageFares(t cleaning.Table, zoneCol, fareCol string) ([]ZoneFare, error) {
	if missing, ok := t.RequireColumns([]string{zoneCol, fareCol}); !ok {
		return nil, apperrors.NewSchemaError(missing)
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, row := range t.Rows {
		zone, isString := row[zoneCol].(string)
		if !isString || zone == "" {
			continue
		}
		fare, ok := row.Float(fareCol)
		if !ok {
			continue
		}
		sums[zone] += fare
		counts[zone]++
	}

	zones := make([]ZoneFare, 0, len(sums))
	for zone, sum := range sums {
		zones = append(zones, ZoneFare{
			Zone:    zone,
			AvgFare: sum / float64(counts[zone]),
			Rides:   counts[zone],
		})
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Zone < zones[j].Zone })

	return zones, nil
}

// ZoneCategories holds zone names bucketed by fare level relative to a
// borough average.
type ZoneCategories struct {
	Pricey  []string `json:"pricey_zones"`
	Cheap   []string `json:"cheap_zones"`
	Average []string `json:"average_zones"`
}

// CategorizeZones buckets pickup and dropoff zones against the borough
// average fare:
//
//   - pricey: above the borough average AND above the 75th percentile
//     of the above-average zones on the same side
//   - cheap: below the borough average AND below the 25th percentile of
//     the below-average zones on the same side
//   - average: within the [p25, p75] band on the same side
//
// Pickup and dropoff sides are thresholded independently, then merged
// with duplicates dropped in first-seen order. A side with no
// above-average (or below-average) zones simply contributes nothing to
// the corresponding bucket.
func CategorizeZones(pickup, dropoff []ZoneFare, boroughAvgFare float64) ZoneCategories {
	var cats ZoneCategories
	cats.Pricey = mergeZones(priceyZones(pickup, boroughAvgFare), priceyZones(dropoff, boroughAvgFare))
	cats.Cheap = mergeZones(cheapZones(pickup, boroughAvgFare), cheapZones(dropoff, boroughAvgFare))
	cats.Average = mergeZones(averageZones(pickup, boroughAvgFare), averageZones(dropoff, boroughAvgFare))
	return cats
}

func priceyZones(zones []ZoneFare, boroughAvg float64) []string {
	p75, ok := sideQuantile(zones, boroughAvg, true, 0.75)
	if !ok {
		return nil
	}
	var out []string
	for _, z := range zones {
		if z.AvgFare > boroughAvg && z.AvgFare > p75 {
			out = append(out, z.Zone)
		}
	}
	return out
}

func cheapZones(zones []ZoneFare, boroughAvg float64) []string {
	p25, ok := sideQuantile(zones, boroughAvg, false, 0.25)
	if !ok {
		return nil
	}
	var out []string
	for _, z := range zones {
		if z.AvgFare < boroughAvg && z.AvgFare < p25 {
			out = append(out, z.Zone)
		}
	}
	return out
}

func averageZones(zones []ZoneFare, boroughAvg float64) []string {
	p25, okLow := sideQuantile(zones, boroughAvg, false, 0.25)
	p75, okHigh := sideQuantile(zones, boroughAvg, true, 0.75)
	if !okLow || !okHigh {
		return nil
	}
	var out []string
	for _, z := range zones {
		if z.AvgFare >= p25 && z.AvgFare <= p75 {
			out = append(out, z.Zone)
		}
	}
	return out
}

// sideQuantile computes a quantile over the zones strictly above (or
// below) the borough average. ok=false when that subset is empty.
func sideQuantile(zones []ZoneFare, boroughAvg float64, above bool, q float64) (float64, bool) {
	var subset []float64
	for _, z := range zones {
		if (above && z.AvgFare > boroughAvg) || (!above && z.AvgFare < boroughAvg) {
			subset = append(subset, z.AvgFare)
		}
	}
	if len(subset) == 0 {
		return 0, false
	}
	v, err := cleaning.Quantile(subset, q)
	if err != nil {
		return 0, false
	}
	return v, true
}

// mergeZones concatenates zone name lists, dropping duplicates while
// preserving first-seen order.
func mergeZones(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, zone := range list {
			if _, dup := seen[zone]; dup {
				continue
			}
			seen[zone] = struct{}{}
			out = append(out, zone)
		}
	}
	return out
}
