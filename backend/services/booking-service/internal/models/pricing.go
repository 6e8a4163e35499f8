package models

// PricingBreakdown is the result of a price quote.
type PricingBreakdown struct {
	BasePrice    float64 `json:"basePrice"`
	TimeFactor   float64 `json:"timeFactor"`
	DemandFactor float64 `json:"demandFactor"`
	FinalPrice   float64 `json:"finalPrice"`
}
