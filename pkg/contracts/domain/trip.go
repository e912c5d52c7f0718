package domain

import "time"

// Canonical TLC yellow-cab column names as they appear in the monthly
// trip record files. The cleaning core is column-name driven, so these
// constants are the single source of truth for the schema.
const (
	ColVendorID             = "VendorID"
	ColPickupDatetime       = "PU_datetime"
	ColDropoffDatetime      = "DO_datetime"
	ColPickupLocationID     = "PULocationID"
	ColDropoffLocationID    = "DOLocationID"
	ColDurationMins         = "duration_mins"
	ColTripDistance         = "trip_distance"
	ColPassengerCount       = "passenger_count"
	ColPaymentType          = "payment_type"
	ColRateCodeID           = "RatecodeID"
	ColPickupZone           = "PU_Zone"
	ColPickupServiceZone    = "PU_service_zone"
	ColDropoffZone          = "DO_Zone"
	ColDropoffServiceZone   = "DO_service_zone"
	ColFareAmount           = "fare_amount"
	ColExtra                = "extra"
	ColMTATax               = "mta_tax"
	ColTipAmount            = "tip_amount"
	ColImprovementSurcharge = "improvement_surcharge"
	ColCongestionSurcharge  = "congestion_surcharge"
	ColTollsAmount          = "tolls_amount"
	ColAirportFee           = "Airport_fee"
	ColCBDCongestionFee     = "cbd_congestion_fee"
)

// DefaultRideIDColumns jointly identify a ride independent of its
// monetary values. A charge and its refund share these columns exactly,
// which is what makes offset-pair matching possible.
func DefaultRideIDColumns() []string {
	return []string{
		ColVendorID,
		ColPickupDatetime,
		ColDropoffDatetime,
		ColPickupLocationID,
		ColDropoffLocationID,
		ColDurationMins,
		ColTripDistance,
		ColPassengerCount,
		ColPaymentType,
		ColRateCodeID,
	}
}

// DefaultFeeColumns are the monetary columns subject to the
// offset-matching check, fare first.
func DefaultFeeColumns() []string {
	return []string{
		ColFareAmount,
		ColExtra,
		ColMTATax,
		ColTipAmount,
		ColImprovementSurcharge,
		ColCongestionSurcharge,
		ColTollsAmount,
		ColAirportFee,
		ColCBDCongestionFee,
	}
}

// DisplayColumns is the preferred leading column order for exported
// tables; remaining columns keep their original order after these.
func DisplayColumns() []string {
	return []string{
		ColPickupDatetime,
		ColDropoffDatetime,
		ColDurationMins,
		ColTripDistance,
		ColPassengerCount,
		ColPickupZone,
		ColPickupServiceZone,
		ColDropoffZone,
		ColDropoffServiceZone,
	}
}

// PaymentType is the TLC payment type code.
type PaymentType int

const (
	PaymentCreditCard PaymentType = 1
	PaymentCash       PaymentType = 2
	PaymentNoCharge   PaymentType = 3
	PaymentDispute    PaymentType = 4
	PaymentUnknown    PaymentType = 5
	PaymentVoided     PaymentType = 6
)

// String returns the human-readable payment type name
func (p PaymentType) String() string {
	switch p {
	case PaymentCreditCard:
		return "credit_card"
	case PaymentCash:
		return "cash"
	case PaymentNoCharge:
		return "no_charge"
	case PaymentDispute:
		return "dispute"
	case PaymentUnknown:
		return "unknown"
	case PaymentVoided:
		return "voided"
	default:
		return "unknown"
	}
}

// TripRecord represents a single yellow-cab trip as parsed from a
// monthly TLC file.
type TripRecord struct {
	VendorID             string    `json:"vendor_id" csv:"VendorID"`
	PickupDatetime       time.Time `json:"pu_datetime" csv:"PU_datetime"`
	DropoffDatetime      time.Time `json:"do_datetime" csv:"DO_datetime"`
	PickupLocationID     string    `json:"pu_location_id" csv:"PULocationID"`
	DropoffLocationID    string    `json:"do_location_id" csv:"DOLocationID"`
	DurationMins         float64   `json:"duration_mins" csv:"duration_mins"`
	TripDistance         float64   `json:"trip_distance" csv:"trip_distance"`
	PassengerCount       float64   `json:"passenger_count" csv:"passenger_count"`
	PaymentType          float64   `json:"payment_type" csv:"payment_type"`
	RateCodeID           float64   `json:"ratecode_id" csv:"RatecodeID"`
	PickupZone           string    `json:"pu_zone" csv:"PU_Zone"`
	DropoffZone          string    `json:"do_zone" csv:"DO_Zone"`
	FareAmount           float64   `json:"fare_amount" csv:"fare_amount"`
	Extra                float64   `json:"extra" csv:"extra"`
	MTATax               float64   `json:"mta_tax" csv:"mta_tax"`
	TipAmount            float64   `json:"tip_amount" csv:"tip_amount"`
	ImprovementSurcharge float64   `json:"improvement_surcharge" csv:"improvement_surcharge"`
	CongestionSurcharge  float64   `json:"congestion_surcharge" csv:"congestion_surcharge"`
	TollsAmount          float64   `json:"tolls_amount" csv:"tolls_amount"`
	AirportFee           float64   `json:"airport_fee" csv:"Airport_fee"`
	CBDCongestionFee     float64   `json:"cbd_congestion_fee" csv:"cbd_congestion_fee"`
}

// IsValid checks if the trip record has plausible core fields
func (t TripRecord) IsValid() bool {
	return !t.PickupDatetime.IsZero() && !t.DropoffDatetime.IsZero() &&
		t.DurationMins > 0 && t.TripDistance > 0 &&
		!t.DropoffDatetime.Before(t.PickupDatetime)
}

// TipRatio returns the tip as a fraction of the fare, 0 when the fare
// is not positive.
func (t TripRecord) TipRatio() float64 {
	if t.FareAmount <= 0 {
		return 0
	}
	return t.TipAmount / t.FareAmount
}
