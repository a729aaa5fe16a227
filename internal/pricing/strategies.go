package pricing

import (
	"fmt"

	"github.com/Simplici0/o.bakery/internal/money"
)

// Strategy tags a pricing option.
type Strategy string

const (
	StrategyCostPlus        Strategy = "cost-plus"
	StrategyCompetitorMatch Strategy = "competitor-match"
	StrategyPremium         Strategy = "premium"
	StrategyPsychological   Strategy = "psychological"
)

const (
	// PremiumFactor lifts the suggested price for the premium strategy.
	PremiumFactor = 1.2
	// HealthyCompetitorMargin is the margin at or above which matching a
	// competitor is considered healthy.
	HealthyCompetitorMargin = 40.0

	// LowMarginThreshold: margins below it are classified low.
	LowMarginThreshold = 40.0
	// ExcellentMarginThreshold: margins at or above it are classified excellent.
	ExcellentMarginThreshold = 60.0
)

// MarginBadge labels a margin for display.
type MarginBadge string

const (
	BadgeLow       MarginBadge = "low"
	BadgeGood      MarginBadge = "good"
	BadgeExcellent MarginBadge = "excellent"
)

// ClassifyMargin maps a margin percentage onto a badge.
func ClassifyMargin(marginPercentage float64) MarginBadge {
	switch {
	case marginPercentage < LowMarginThreshold:
		return BadgeLow
	case marginPercentage >= ExcellentMarginThreshold:
		return BadgeExcellent
	default:
		return BadgeGood
	}
}

// Comparison is one priced strategy.
type Comparison struct {
	Strategy         Strategy    `json:"strategy"`
	Price            float64     `json:"price"`
	Profit           float64     `json:"profit"`
	MarginPercentage float64     `json:"marginPercentage"`
	Multiplier       float64     `json:"multiplier"`
	Badge            MarginBadge `json:"badge"`
	Description      string      `json:"description"`
	Recommendation   string      `json:"recommendation"`
}

// Multiplier is price over cost, 0 when cost is 0.
func Multiplier(totalCost, price float64) float64 {
	if totalCost == 0 {
		return 0
	}
	return price / totalCost
}

func priced(strategy Strategy, totalCost, price float64) Comparison {
	margin := ProfitMargin(totalCost, price)
	return Comparison{
		Strategy:         strategy,
		Price:            price,
		Profit:           price - totalCost,
		MarginPercentage: margin,
		Multiplier:       Multiplier(totalCost, price),
		Badge:            ClassifyMargin(margin),
	}
}

// CompareStrategies prices a breakdown under each strategy. The result is
// always in declared order: cost-plus, competitor-match (only when
// competitorPrice > 0), premium.
func CompareStrategies(b Breakdown, competitorPrice float64) []Comparison {
	out := make([]Comparison, 0, 3)

	costPlus := priced(StrategyCostPlus, b.TotalCost, b.SuggestedPrice)
	costPlus.Description = fmt.Sprintf("Cost plus %.0f%% markup", b.MarkupPercent)
	costPlus.Recommendation = "Standard price for everyday items"
	out = append(out, costPlus)

	if competitorPrice > 0 {
		match := priced(StrategyCompetitorMatch, b.TotalCost, competitorPrice)
		match.Description = "Match the competitor's price"
		if match.MarginPercentage >= HealthyCompetitorMargin {
			match.Recommendation = "Healthy margin at the competitor's price"
		} else {
			match.Recommendation = "Thin margin: consider raising price or reducing cost"
		}
		out = append(out, match)
	}

	premium := priced(StrategyPremium, b.TotalCost, money.RoundCents(b.SuggestedPrice*PremiumFactor))
	premium.Description = "20% above the standard price for high-demand or custom items"
	premium.Recommendation = "Use for custom orders, seasonal specials and items with strong demand"
	out = append(out, premium)

	return out
}
