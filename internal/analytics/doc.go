// Package analytics derives zone-level fare and tip statistics from
// cleaned trip tables: average fares per pickup/dropoff zone, zone
// categorization against borough-level fare quartiles, same-zone ride
// shares, and neighborhood quantile tables.
package analytics
