package pricing

// Margin bands used by the what-if evaluator.
const (
	// LossMarginThreshold: margins below it mean selling under cost.
	LossMarginThreshold = 0.0
	// MinViableMargin is the lowest margin considered sustainable.
	MinViableMargin = 30.0
	// StrongMarginThreshold: margins at or above it are strong.
	StrongMarginThreshold = 50.0
)

const (
	RecommendationLoss       = "Selling at a loss: the price does not cover cost"
	RecommendationBelowMin   = "Below the sustainable minimum margin: raise the price or cut cost"
	RecommendationAcceptable = "Acceptable margin"
	RecommendationStrong     = "Strong margin"
)

// WhatIf is the outcome of pricing a cost at a candidate price.
type WhatIf struct {
	TotalCost        float64 `json:"totalCost"`
	Price            float64 `json:"price"`
	Profit           float64 `json:"profit"`
	MarginPercentage float64 `json:"marginPercentage"`
	Multiplier       float64 `json:"multiplier"`
	IsViable         bool    `json:"isViable"`
	Recommendation   string  `json:"recommendation"`
}

// Evaluate prices totalCost at candidatePrice. Margin is 0 when the price
// is 0 and multiplier is 0 when the cost is 0; nothing divides by zero.
func Evaluate(totalCost, candidatePrice float64) WhatIf {
	margin := ProfitMargin(totalCost, candidatePrice)
	return WhatIf{
		TotalCost:        totalCost,
		Price:            candidatePrice,
		Profit:           candidatePrice - totalCost,
		MarginPercentage: margin,
		Multiplier:       Multiplier(totalCost, candidatePrice),
		IsViable:         margin >= MinViableMargin,
		Recommendation:   recommend(margin),
	}
}

func recommend(margin float64) string {
	switch {
	case margin < LossMarginThreshold:
		return RecommendationLoss
	case margin < MinViableMargin:
		return RecommendationBelowMin
	case margin < StrongMarginThreshold:
		return RecommendationAcceptable
	default:
		return RecommendationStrong
	}
}
