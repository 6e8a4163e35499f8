package service

import (
	"math"
	"strings"

	"evcharge/backend/services/booking-service/internal/models"
)

// Tariff holds the rates used by the pricing engine.
type Tariff struct {
	StandardBase float64 `yaml:"standardBase"`
	FastBase     float64 `yaml:"fastBase"`
	PeakFactor   float64 `yaml:"peakFactor"`
}

// DefaultTariff is used for any zero field of a configured tariff.
var DefaultTariff = Tariff{
	StandardBase: 10,
	FastBase:     15,
	PeakFactor:   1.5,
}

// demandTier applies Factor when the demand hash is above Above.
type demandTier struct {
	Above  int64
	Factor float64
}

var demandTiers = []demandTier{
	{Above: 80, Factor: 1.8},
	{Above: 60, Factor: 1.5},
	{Above: 40, Factor: 1.2},
}

// peak hours are inclusive ranges of the starting hour.
var peakHours = [][2]int{{8, 10}, {17, 20}}

// PricingEngine quotes slot prices. It holds no state besides the tariff.
type PricingEngine struct {
	tariff Tariff
}

// NewPricingEngine returns engine with defaults filled in.
func NewPricingEngine(tariff Tariff) *PricingEngine {
	if tariff.StandardBase <= 0 {
		tariff.StandardBase = DefaultTariff.StandardBase
	}
	if tariff.FastBase <= 0 {
		tariff.FastBase = DefaultTariff.FastBase
	}
	if tariff.PeakFactor <= 0 {
		tariff.PeakFactor = DefaultTariff.PeakFactor
	}
	return &PricingEngine{tariff: tariff}
}

// Tariff returns the active rates.
func (e *PricingEngine) Tariff() Tariff {
	return e.tariff
}

// Quote computes the price breakdown for a slot.
func (e *PricingEngine) Quote(date, clock string, stationID int64, chargerType string) (models.PricingBreakdown, error) {
	day, err := ParseDate(date)
	if err != nil {
		return models.PricingBreakdown{}, err
	}
	hour, _, err := ParseClock(clock)
	if err != nil {
		return models.PricingBreakdown{}, err
	}
	if strings.TrimSpace(chargerType) == "" {
		return models.PricingBreakdown{}, validationError("charger type required")
	}

	base := e.BasePrice(chargerType)
	timeFactor := e.TimeFactor(hour)
	demand := DemandFactor(stationID, day.Day(), int(day.Month()-1), hour)

	return models.PricingBreakdown{
		BasePrice:    base,
		TimeFactor:   timeFactor,
		DemandFactor: demand,
		FinalPrice:   roundCents(base * timeFactor * demand),
	}, nil
}

// BasePrice is the fast rate for "Level 3" or "Fast" chargers, otherwise the standard rate.
func (e *PricingEngine) BasePrice(chargerType string) float64 {
	if strings.Contains(chargerType, "Level 3") || strings.Contains(chargerType, "Fast") {
		return e.tariff.FastBase
	}
	return e.tariff.StandardBase
}

// TimeFactor is the peak surcharge for hours 8-10 and 17-20, otherwise 1.
func (e *PricingEngine) TimeFactor(hour int) float64 {
	if IsPeakHour(hour) {
		return e.tariff.PeakFactor
	}
	return 1.0
}

// IsPeakHour reports whether hour falls in a peak window.
func IsPeakHour(hour int) bool {
	for _, w := range peakHours {
		if hour >= w[0] && hour <= w[1] {
			return true
		}
	}
	return false
}

// DemandFactor derives a surcharge from ((stationID + day + monthIndex) * hour) mod 100.
func DemandFactor(stationID int64, day, monthIndex, hour int) float64 {
	hash := ((stationID + int64(day) + int64(monthIndex)) * int64(hour)) % 100
	for _, tier := range demandTiers {
		if hash > tier.Above {
			return tier.Factor
		}
	}
	return 1.0
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
