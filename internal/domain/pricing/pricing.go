// Package pricing computes booking and payment amounts.
//
// Every amount in the system (booking creation, payment creation and the
// amount lookup) goes through Amount so the three always agree.
package pricing

import (
	"math"

	"laborhub/internal/domain"
)

// Amount returns rate * duration + companyFee rounded to cents.
func Amount(rate, duration, companyFee float64) float64 {
	return round2(rate*duration + companyFee)
}

// Duration picks the billed quantity: days for daily bookings, hours otherwise.
func Duration(pt domain.PaymentType, hours, days float64) float64 {
	if pt == domain.PaymentTypeDaily {
		return days
	}
	return hours
}

// Quote is a priced amount with its inputs kept for snapshots.
type Quote struct {
	Rate       float64 `json:"rate"`
	Duration   float64 `json:"duration"`
	CompanyFee float64 `json:"company_fee"`
	Total      float64 `json:"total"`
}

func NewQuote(rate, duration, companyFee float64) Quote {
	return Quote{
		Rate:       rate,
		Duration:   duration,
		CompanyFee: companyFee,
		Total:      Amount(rate, duration, companyFee),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
