package booking

import (
	"math"
	"time"

	"hotelbooking/models"
)

// ComputePrice prices a stay at nightlyRate per night. A stay that does not
// end after it starts, a negative or non-finite rate, or a total that does
// not fit a float64 yields a zero quote which callers treat as "nothing to
// display".
func ComputePrice(nightlyRate float64, checkIn, checkOut time.Time) models.Quote {
	if !isFinite(nightlyRate) || nightlyRate < 0 || !checkOut.After(checkIn) {
		return models.Quote{}
	}
	nights := NightsBetween(checkIn, checkOut)
	if nights <= 0 {
		return models.Quote{}
	}
	total := roundMinorUnit(float64(nights) * nightlyRate)
	if !isFinite(total) {
		return models.Quote{}
	}
	return models.Quote{
		Nights: nights,
		Total:  total,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NightsBetween counts calendar days from checkIn to checkOut. Time of day is
// ignored, so there is no partial-night billing.
func NightsBetween(checkIn, checkOut time.Time) int {
	in := civilDate(checkIn)
	out := civilDate(checkOut)
	if !out.After(in) {
		return 0
	}
	return int(out.Sub(in).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// roundMinorUnit rounds an amount to cents.
func roundMinorUnit(amount float64) float64 {
	return math.Round(amount*100) / 100
}
