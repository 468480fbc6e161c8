package delivery

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/bakery-app/utils"
)

const MessageFreeDelivery = "Free delivery"

// FeePolicy maps a distance to a fee: free up to FreeRadiusKm, PerKmRate for
// every km past it, unavailable beyond MaxRadiusKm.
type FeePolicy struct {
	FreeRadiusKm float64
	MaxRadiusKm  float64
	PerKmRate    float64
}

func DefaultFeePolicy() FeePolicy {
	return FeePolicy{FreeRadiusKm: 9, MaxRadiusKm: 30, PerKmRate: 1.20}
}

// ResolvedAddress is what the geocoder matched.
type ResolvedAddress struct {
	Point
	DisplayName string `json:"display_name"`
}

// Calculation is recomputed on every address change and never persisted.
type Calculation struct {
	DistanceKm float64          `json:"distance_km"`
	Fee        float64          `json:"fee"`
	Available  bool             `json:"available"`
	Message    string           `json:"message"`
	Verified   bool             `json:"verified"`
	Address    *ResolvedAddress `json:"address,omitempty"`
}

// Quote applies the bands in order: cutoff, free radius, per-km rate.
func (p FeePolicy) Quote(distanceKm float64) Calculation {
	if distanceKm > p.MaxRadiusKm {
		return Calculation{
			DistanceKm: distanceKm,
			Fee:        0,
			Available:  false,
			Message:    fmt.Sprintf("Sorry, we only deliver within %.0f km of the store (this address is %.1f km away)", p.MaxRadiusKm, distanceKm),
		}
	}
	if distanceKm <= p.FreeRadiusKm {
		return Calculation{DistanceKm: distanceKm, Fee: 0, Available: true, Message: MessageFreeDelivery}
	}

	fee := decimal.NewFromFloat(distanceKm).
		Sub(decimal.NewFromFloat(p.FreeRadiusKm)).
		Mul(decimal.NewFromFloat(p.PerKmRate)).
		Round(2).
		InexactFloat64()
	return Calculation{
		DistanceKm: distanceKm,
		Fee:        fee,
		Available:  true,
		Message:    fmt.Sprintf("Delivery fee %s (%.1f km)", utils.FormatCurrencyEUR(fee), distanceKm),
	}
}
