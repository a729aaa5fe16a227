package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/settings"
	"github.com/Simplici0/o.bakery/internal/units"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func ptr(v float64) *float64 { return &v }

func cakeFixture() (bakery.Recipe, map[string]bakery.Ingredient) {
	ingredients := IndexIngredients([]bakery.Ingredient{
		{ID: "flour", Name: "Flour", PackageSize: 1, PackageUnit: units.Kilogram, PackageCost: 2.00},
		{ID: "sugar", Name: "Sugar", PackageSize: 2, PackageUnit: units.Kilogram, PackageCost: 3.00},
		{ID: "butter", Name: "Butter", PackageSize: 1, PackageUnit: units.Pound, PackageCost: 4.54},
		{ID: "eggs", Name: "Eggs", PackageSize: 12, PackageUnit: units.Piece, PackageCost: 8.76},
	})
	recipe := bakery.Recipe{
		ID:       "cake",
		Name:     "Butter cake",
		Servings: 8,
		Lines: []bakery.RecipeLine{
			{IngredientID: "flour", Quantity: 500, Unit: units.Gram},
			{IngredientID: "sugar", Quantity: 200, Unit: units.Gram},
			{IngredientID: "butter", Quantity: 8, Unit: units.Ounce},
			{IngredientID: "eggs", Quantity: 2, Unit: units.Piece},
		},
		LaborMinutes: 40,
	}
	return recipe, ingredients
}

func TestComputeBreakdown_EndToEnd(t *testing.T) {
	recipe, ingredients := cakeFixture()
	biz := settings.DefaultBusiness()

	b, err := ComputeBreakdown(recipe, ingredients, biz)
	require.NoError(t, err)

	nearlyEqual(t, "ingredientCost", b.IngredientCost, 5.03)
	nearlyEqual(t, "laborCost", b.LaborCost, 10.00)
	nearlyEqual(t, "overheadCost", b.OverheadCost, 1.01)
	nearlyEqual(t, "totalCost", b.TotalCost, 16.04)
	nearlyEqual(t, "markupMultiplier", b.MarkupMultiplier, 2.5)
	nearlyEqual(t, "suggestedPrice", b.SuggestedPrice, 40.10)
	assert.InDelta(t, 60.0, b.ProfitMargin, 1e-6)
	nearlyEqual(t, "costPerServing", b.CostPerServing, 2.01)

	require.Len(t, b.Lines, 4)
	nearlyEqual(t, "butter line", b.Lines[2].Cost, 2.27)
}

func TestComputeBreakdown_ZeroEverything(t *testing.T) {
	b, err := ComputeBreakdown(bakery.Recipe{Name: "Air", Servings: 1}, nil, settings.DefaultBusiness())
	require.NoError(t, err)

	nearlyEqual(t, "totalCost", b.TotalCost, 0)
	nearlyEqual(t, "suggestedPrice", b.SuggestedPrice, 0)
	nearlyEqual(t, "profitMargin", b.ProfitMargin, 0)
	assert.False(t, math.IsNaN(b.ProfitMargin))
}

func TestComputeBreakdown_OverheadOverride(t *testing.T) {
	recipe, ingredients := cakeFixture()
	recipe.OverheadOverride = ptr(3.5)

	b, err := ComputeBreakdown(recipe, ingredients, settings.DefaultBusiness())
	require.NoError(t, err)

	nearlyEqual(t, "overheadCost", b.OverheadCost, 3.5)
	nearlyEqual(t, "totalCost", b.TotalCost, 18.53)
}

func TestComputeBreakdown_OverheadIsShareOfIngredients(t *testing.T) {
	recipe, ingredients := cakeFixture()
	biz := settings.DefaultBusiness()
	biz.OverheadPercentage = 100
	biz.LaborCostPerHour = 60

	b, err := ComputeBreakdown(recipe, ingredients, biz)
	require.NoError(t, err)

	nearlyEqual(t, "laborCost", b.LaborCost, 40)
	nearlyEqual(t, "overheadCost", b.OverheadCost, 5.03)
}

func TestComputeBreakdown_IncompatibleUnit(t *testing.T) {
	recipe, ingredients := cakeFixture()
	recipe.Lines[0].Unit = units.Cup

	_, err := ComputeBreakdown(recipe, ingredients, settings.DefaultBusiness())
	require.ErrorIs(t, err, units.ErrIncompatible)
}

func TestComputeBreakdown_UnknownIngredient(t *testing.T) {
	recipe, ingredients := cakeFixture()
	delete(ingredients, "eggs")

	_, err := ComputeBreakdown(recipe, ingredients, settings.DefaultBusiness())
	require.ErrorIs(t, err, ErrUnknownIngredient)
}

func TestMarkupMultiplier(t *testing.T) {
	nearlyEqual(t, "150%", MarkupMultiplier(150), 2.5)
	nearlyEqual(t, "0%", MarkupMultiplier(0), 1)
	nearlyEqual(t, "default", MarkupMultiplier(settings.DefaultMarkupPercent), 2.5)
}

func TestProfitMargin_MultiplierIdentity(t *testing.T) {
	for _, cost := range []float64{0.5, 3, 16.04, 250} {
		for _, k := range []float64{1.25, 2, 2.5, 3.5} {
			nearlyEqual(t, "margin", ProfitMargin(cost, cost*k), (k-1)/k*100)
		}
	}
	nearlyEqual(t, "zero price", ProfitMargin(10, 0), 0)
	nearlyEqual(t, "below cost", ProfitMargin(10, 5), -100)
}

func TestComputeBreakdown_MarginIsExactForHalfCentPrices(t *testing.T) {
	biz := settings.DefaultBusiness()
	biz.OverheadPercentage = 0
	k := MarkupMultiplier(biz.DefaultMarkupPercent)

	for _, total := range []float64{0.01, 0.03, 1.01, 3.33, 16.05, 99.99} {
		ingredients := IndexIngredients([]bakery.Ingredient{
			{ID: "box", Name: "Box", PackageSize: 1, PackageUnit: units.Piece, PackageCost: total},
		})
		recipe := bakery.Recipe{
			Name:     "Boxed",
			Servings: 1,
			Lines:    []bakery.RecipeLine{{IngredientID: "box", Quantity: 1, Unit: units.Piece}},
		}

		b, err := ComputeBreakdown(recipe, ingredients, biz)
		require.NoError(t, err)

		nearlyEqual(t, "totalCost", b.TotalCost, total)
		nearlyEqual(t, "suggestedPrice", b.SuggestedPrice, total*k)
		nearlyEqual(t, "profitMargin", b.ProfitMargin, (k-1)/k*100)
	}
}
