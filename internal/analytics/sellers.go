package analytics

import (
	"fmt"
	"sort"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/money"
)

// Metric selects the ranking key for top sellers.
type Metric string

const (
	ByQuantity Metric = "quantity"
	ByProfit   Metric = "profit"
	ByRevenue  Metric = "revenue"
)

// ParseMetric accepts quantity, profit or revenue.
func ParseMetric(raw string) (Metric, error) {
	switch Metric(raw) {
	case ByQuantity, ByProfit, ByRevenue:
		return Metric(raw), nil
	}
	return "", fmt.Errorf("unknown metric %q", raw)
}

// TopSeller aggregates a recipe's delivered lines.
type TopSeller struct {
	RecipeID   string  `json:"recipeId"`
	RecipeName string  `json:"recipeName"`
	UnitsSold  float64 `json:"unitsSold"`
	Revenue    float64 `json:"revenue"`
	Profit     float64 `json:"profit"`
	Orders     int     `json:"orders"`
}

// TopSellers groups delivered lines by recipe and ranks them descending by
// the metric, breaking ties by recipe ID ascending. limit <= 0 returns all.
func TopSellers(orders []bakery.Order, by Metric, limit int) []TopSeller {
	groups := make(map[string]*TopSeller)
	for _, o := range Delivered(orders) {
		counted := make(map[string]bool, len(o.Lines))
		for _, l := range o.Lines {
			g, ok := groups[l.RecipeID]
			if !ok {
				g = &TopSeller{RecipeID: l.RecipeID}
				groups[l.RecipeID] = g
			}
			if g.RecipeName == "" {
				g.RecipeName = l.RecipeName
			}
			g.UnitsSold += l.Quantity
			g.Revenue += l.Total()
			g.Profit += l.Profit()
			if !counted[l.RecipeID] {
				counted[l.RecipeID] = true
				g.Orders++
			}
		}
	}

	out := make([]TopSeller, 0, len(groups))
	for _, g := range groups {
		g.Revenue = money.RoundCents(g.Revenue)
		g.Profit = money.RoundCents(g.Profit)
		out = append(out, *g)
	}

	key := func(s TopSeller) float64 {
		switch by {
		case ByProfit:
			return s.Profit
		case ByRevenue:
			return s.Revenue
		default:
			return s.UnitsSold
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := key(out[i]), key(out[j])
		if ki != kj {
			return ki > kj
		}
		return out[i].RecipeID < out[j].RecipeID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
