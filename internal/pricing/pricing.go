// Package pricing computes ride prices. The same calculator backs the public
// quote endpoint and the authoritative price stored on a reservation.
package pricing

import (
	"math"
	"strings"

	"movextransfer/internal/db"
	"movextransfer/internal/utils"
)

// Config holds every tunable of the price calculation. Treat a Config as a
// value: DefaultConfig returns a fresh copy each call.
type Config struct {
	// Fixed price per airport route, CZK.
	BasePrices map[db.ServiceType]int

	// Private driver pricing.
	PricePerKm            int
	MinPrivateDriverPrice int

	// Night surcharge applies to pickups at or after NightStartHour and
	// before NightEndHour.
	NightSurchargeRate float64
	NightStartHour     int
	NightEndHour       int

	// Pickup fee per km, waived when the pickup address mentions FeeFreeZone.
	PickupFeePerKm int
	FeeFreeZone    string

	DepositRate float64
}

func DefaultConfig() Config {
	return Config{
		BasePrices: map[db.ServiceType]int{
			db.ServiceKatowice: 1900,
			db.ServiceKrakow:   3500,
			db.ServiceVienna:   5200,
			db.ServicePrague:   6900,
			db.ServiceBrno:     3400,
		},
		PricePerKm:            25,
		MinPrivateDriverPrice: 800,
		NightSurchargeRate:    0.30,
		NightStartHour:        22,
		NightEndHour:          6,
		PickupFeePerKm:        16,
		FeeFreeZone:           "ostrava centrum",
		DepositRate:           0.50,
	}
}

type Input struct {
	Type          db.ServiceType
	EstimatedKm   float64
	RoundTrip     bool
	PickupTime    string
	PickupAddress string
}

// Breakdown is the itemised price. Total = Base + ExtraKm + NightSurcharge.
type Breakdown struct {
	Base           int `json:"base"`
	ExtraKm        int `json:"extra_km"`
	NightSurcharge int `json:"night_surcharge"`
	Total          int `json:"total"`
	Deposit        int `json:"deposit"`
}

// Calculate never fails; unusable numeric input counts as zero.
func (c Config) Calculate(in Input) Breakdown {
	km := sanitizeKm(in.EstimatedKm)

	var b Breakdown
	b.Base = c.basePrice(in.Type, km, in.RoundTrip)
	b.ExtraKm = c.PickupFee(in.PickupAddress, km)
	if c.IsNight(in.PickupTime) {
		b.NightSurcharge = round(float64(b.Base) * c.NightSurchargeRate)
	}
	b.Total = b.Base + b.ExtraKm + b.NightSurcharge
	b.Deposit = c.Deposit(b.Total)
	return b
}

func (c Config) basePrice(t db.ServiceType, km float64, roundTrip bool) int {
	if t != db.ServicePrivateDriver {
		return c.BasePrices[t]
	}
	price := round(km * float64(c.PricePerKm))
	if price < c.MinPrivateDriverPrice {
		price = c.MinPrivateDriverPrice
	}
	if roundTrip {
		price *= 2
	}
	return price
}

// PickupFee is zero inside the fee-free zone or when the distance is unknown.
func (c Config) PickupFee(address string, km float64) int {
	if c.InFeeFreeZone(address) {
		return 0
	}
	km = sanitizeKm(km)
	if km == 0 {
		return 0
	}
	return round(km * float64(c.PickupFeePerKm))
}

func (c Config) InFeeFreeZone(address string) bool {
	normalized := strings.ToLower(strings.TrimSpace(address))
	if normalized == "" || c.FeeFreeZone == "" {
		return false
	}
	return strings.Contains(normalized, strings.ToLower(c.FeeFreeZone))
}

// IsNight reports whether the pickup hour falls in the surcharge window.
// Unparseable times are not night.
func (c Config) IsNight(pickupTime string) bool {
	minutes, err := utils.ParseClock(pickupTime)
	if err != nil {
		return false
	}
	hour := minutes / 60
	return hour >= c.NightStartHour || hour < c.NightEndHour
}

func (c Config) Deposit(total int) int {
	return round(float64(total) * c.DepositRate)
}

func sanitizeKm(km float64) float64 {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return 0
	}
	return km
}

func round(v float64) int {
	return int(math.Round(v))
}
