package pricing

import (
	"errors"
	"fmt"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/money"
	"github.com/Simplici0/o.bakery/internal/settings"
	"github.com/Simplici0/o.bakery/internal/units"
)

// ErrUnknownIngredient is returned when a recipe line references an
// ingredient missing from the cost index.
var ErrUnknownIngredient = errors.New("unknown ingredient")

// LineCost is the costed form of a recipe line.
type LineCost struct {
	IngredientID   string     `json:"ingredientId"`
	IngredientName string     `json:"ingredientName"`
	Quantity       float64    `json:"quantity"`
	Unit           units.Unit `json:"unit"`
	Cost           float64    `json:"cost"`
}

// Breakdown contains the per-batch cost and price of a recipe.
type Breakdown struct {
	Lines            []LineCost `json:"lines"`
	IngredientCost   float64    `json:"ingredientCost"`
	LaborCost        float64    `json:"laborCost"`
	OverheadCost     float64    `json:"overheadCost"`
	TotalCost        float64    `json:"totalCost"`
	CostPerServing   float64    `json:"costPerServing"`
	MarkupPercent    float64    `json:"markupPercent"`
	MarkupMultiplier float64    `json:"markupMultiplier"`
	SuggestedPrice   float64    `json:"suggestedPrice"`
	ProfitMargin     float64    `json:"profitMargin"`
}

// MarkupMultiplier converts a stored markup percentage into the factor
// applied to cost. The percentage is added on top of cost, so 150 gives 2.5.
func MarkupMultiplier(markupPercent float64) float64 {
	return 1 + markupPercent/100
}

// ProfitMargin is profit as a percentage of price, 0 when price is 0.
// It is negative when price is below cost.
func ProfitMargin(totalCost, price float64) float64 {
	if price == 0 {
		return 0
	}
	return (price - totalCost) / price * 100
}

// ComputeBreakdown costs a recipe against an ingredient index using the
// business rates. Money components are rounded to cents before summing.
// The suggested price is totalCost times the markup multiplier, unrounded,
// so its margin is exactly (k-1)/k. Display rounding belongs to RoundPrice.
// Overhead is a share of ingredient cost unless the recipe overrides it.
func ComputeBreakdown(recipe bakery.Recipe, ingredients map[string]bakery.Ingredient, biz settings.Business) (Breakdown, error) {
	lines := make([]LineCost, 0, len(recipe.Lines))
	var ingredientCost float64
	for _, line := range recipe.Lines {
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			return Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownIngredient, line.IngredientID)
		}
		if !units.Compatible(line.Unit, ing.PackageUnit) {
			return Breakdown{}, fmt.Errorf("cost %s in %s: %w: %s vs %s", ing.Name, recipe.Name, units.ErrIncompatible, line.Unit, ing.PackageUnit)
		}
		qty, err := units.ToBase(line.Quantity, line.Unit)
		if err != nil {
			return Breakdown{}, fmt.Errorf("cost %s in %s: %w", ing.Name, recipe.Name, err)
		}
		cost := ing.CostPerBaseUnit() * qty
		ingredientCost += cost
		lines = append(lines, LineCost{
			IngredientID:   ing.ID,
			IngredientName: ing.Name,
			Quantity:       line.Quantity,
			Unit:           line.Unit,
			Cost:           money.RoundCents(cost),
		})
	}
	ingredientCost = money.RoundCents(ingredientCost)

	laborCost := money.RoundCents(recipe.LaborMinutes / 60.0 * biz.LaborCostPerHour)

	var overheadCost float64
	if recipe.OverheadOverride != nil {
		overheadCost = money.RoundCents(*recipe.OverheadOverride)
	} else {
		overheadCost = money.RoundCents(ingredientCost * (biz.OverheadPercentage / 100.0))
	}

	totalCost := money.Sum(ingredientCost, laborCost, overheadCost)
	if totalCost < 0 {
		totalCost = 0
	}

	multiplier := MarkupMultiplier(biz.DefaultMarkupPercent)
	suggestedPrice := totalCost * multiplier

	var perServing float64
	if recipe.Servings > 0 {
		perServing = money.RoundCents(totalCost / float64(recipe.Servings))
	}

	return Breakdown{
		Lines:            lines,
		IngredientCost:   ingredientCost,
		LaborCost:        laborCost,
		OverheadCost:     overheadCost,
		TotalCost:        totalCost,
		CostPerServing:   perServing,
		MarkupPercent:    biz.DefaultMarkupPercent,
		MarkupMultiplier: multiplier,
		SuggestedPrice:   suggestedPrice,
		ProfitMargin:     ProfitMargin(totalCost, suggestedPrice),
	}, nil
}

// IndexIngredients keys ingredients by ID.
func IndexIngredients(list []bakery.Ingredient) map[string]bakery.Ingredient {
	idx := make(map[string]bakery.Ingredient, len(list))
	for _, ing := range list {
		idx[ing.ID] = ing
	}
	return idx
}
