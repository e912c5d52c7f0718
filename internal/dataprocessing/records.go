package dataprocessing

import (
	"time"

	"taxicli/internal/cleaning"
	"taxicli/pkg/contracts/domain"
)

// tripTimeLayout is the timestamp format of the TLC CSV exports.
const tripTimeLayout = "2006-01-02 15:04:05"

// RecordFromRow converts a table row into a typed trip record. Missing
// and unparsable cells become zero values, which IsValid then rejects.
func RecordFromRow(row cleaning.Row) domain.TripRecord {
	rec := domain.TripRecord{
		VendorID:          rowString(row, domain.ColVendorID),
		PickupDatetime:    rowTime(row, domain.ColPickupDatetime),
		DropoffDatetime:   rowTime(row, domain.ColDropoffDatetime),
		PickupLocationID:  rowString(row, domain.ColPickupLocationID),
		DropoffLocationID: rowString(row, domain.ColDropoffLocationID),
		PickupZone:        rowString(row, domain.ColPickupZone),
		DropoffZone:       rowString(row, domain.ColDropoffZone),
	}
	rec.DurationMins, _ = row.Float(domain.ColDurationMins)
	rec.TripDistance, _ = row.Float(domain.ColTripDistance)
	rec.PassengerCount, _ = row.Float(domain.ColPassengerCount)
	rec.PaymentType, _ = row.Float(domain.ColPaymentType)
	rec.RateCodeID, _ = row.Float(domain.ColRateCodeID)
	rec.FareAmount, _ = row.Float(domain.ColFareAmount)
	rec.Extra, _ = row.Float(domain.ColExtra)
	rec.MTATax, _ = row.Float(domain.ColMTATax)
	rec.TipAmount, _ = row.Float(domain.ColTipAmount)
	rec.ImprovementSurcharge, _ = row.Float(domain.ColImprovementSurcharge)
	rec.CongestionSurcharge, _ = row.Float(domain.ColCongestionSurcharge)
	rec.TollsAmount, _ = row.Float(domain.ColTollsAmount)
	rec.AirportFee, _ = row.Float(domain.ColAirportFee)
	rec.CBDCongestionFee, _ = row.Float(domain.ColCBDCongestionFee)
	return rec
}

func rowString(row cleaning.Row, col string) string {
	s, _ := row[col].(string)
	return s
}

func rowTime(row cleaning.Row, col string) time.Time {
	s, ok := row[col].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(tripTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TableProfile summarizes the typed view of a parsed table: how many
// rows have implausible core fields, the payment type mix, and the mean
// tip-to-fare ratio over positive-fare rows.
type TableProfile struct {
	Rows         int
	SuspectRows  int
	Payments     map[string]int
	MeanTipRatio float64
}

// ProfileTable converts every row to a trip record and aggregates the
// record-level checks. Suspect rows are reported, never removed; the
// cleaning stages decide what gets dropped.
func ProfileTable(t cleaning.Table) TableProfile {
	profile := TableProfile{
		Rows:     t.Len(),
		Payments: make(map[string]int),
	}

	ratioSum := 0.0
	ratioRows := 0
	for _, row := range t.Rows {
		rec := RecordFromRow(row)
		if !rec.IsValid() {
			profile.SuspectRows++
		}
		profile.Payments[domain.PaymentType(rec.PaymentType).String()]++
		if rec.FareAmount > 0 {
			ratioSum += rec.TipRatio()
			ratioRows++
		}
	}
	if ratioRows > 0 {
		profile.MeanTipRatio = ratioSum / float64(ratioRows)
	}

	return profile
}
