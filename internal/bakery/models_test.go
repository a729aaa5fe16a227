package bakery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/o.bakery/internal/units"
)

func ptr(v float64) *float64 { return &v }

func TestIngredientCostPerBaseUnit(t *testing.T) {
	flour := Ingredient{Name: "Flour", PackageSize: 2, PackageUnit: units.Kilogram, PackageCost: 3}
	assert.InDelta(t, 0.0015, flour.CostPerBaseUnit(), 1e-12)

	broken := Ingredient{Name: "Broken", PackageSize: 0, PackageUnit: units.Gram, PackageCost: 3}
	assert.Equal(t, 0.0, broken.CostPerBaseUnit())
}

func TestOrderTotalsAndProfit(t *testing.T) {
	o := Order{Lines: []OrderLine{
		{RecipeID: "a", Quantity: 2, UnitPrice: 10, UnitCost: ptr(4)},
		{RecipeID: "b", Quantity: 1, UnitPrice: 7.5},
	}}
	assert.InDelta(t, 27.5, o.Total(), 1e-9)
	assert.InDelta(t, 12, o.Profit(), 1e-9, "lines without cost snapshot contribute no profit")
}

func TestValidate_RejectsBadRecipe(t *testing.T) {
	r := Recipe{Name: "Loaf", Servings: 0, Lines: []RecipeLine{{IngredientID: "f", Quantity: -1, Unit: units.Gram}}}
	err := Validate(r)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "Servings")
	assert.Contains(t, err.Error(), "Quantity")
}

func TestValidate_UnknownUnit(t *testing.T) {
	ing := Ingredient{Name: "Salt", PackageSize: 1, PackageUnit: "pinch", PackageCost: 1}
	require.ErrorIs(t, Validate(ing), ErrInvalid)
}

func TestValidateRecipe_IncompatibleUnits(t *testing.T) {
	ingredients := map[string]Ingredient{
		"milk": {ID: "milk", Name: "Milk", PackageSize: 1, PackageUnit: units.Liter, PackageCost: 1.2},
	}
	r := Recipe{Name: "Custard", Servings: 4, Lines: []RecipeLine{{IngredientID: "milk", Quantity: 200, Unit: units.Gram}}}
	require.ErrorIs(t, ValidateRecipe(r, ingredients), ErrInvalid)

	r.Lines[0].Unit = units.Cup
	require.NoError(t, ValidateRecipe(r, ingredients))

	r.Lines[0].IngredientID = "cream"
	require.ErrorIs(t, ValidateRecipe(r, ingredients), ErrInvalid)
}

func TestValidate_Order(t *testing.T) {
	o := Order{
		CustomerID:   "c1",
		Status:       StatusNew,
		DeliveryDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Lines:        []OrderLine{{RecipeID: "r1", Quantity: 1, UnitPrice: 20}},
	}
	require.NoError(t, Validate(o))

	o.Status = "shipped"
	require.ErrorIs(t, Validate(o), ErrInvalid)

	o.Status = StatusNew
	o.Lines = nil
	require.ErrorIs(t, Validate(o), ErrInvalid)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusNew, StatusInProgress))
	assert.True(t, CanTransition(StatusReady, StatusDelivered))
	assert.True(t, CanTransition(StatusInProgress, StatusCancelled))
	assert.False(t, CanTransition(StatusNew, StatusDelivered))
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusNew))
}
