package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/pricing"
	"github.com/Simplici0/o.bakery/internal/settings"
)

func TestSettingsEndpoints(t *testing.T) {
	env := newTestEnv(t, routeOptions{})
	env.login(t)

	rr := env.do(t, http.MethodGet, "/api/settings/business", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, settings.DefaultBusiness(), decodeBody[settings.Business](t, rr))

	rr = env.do(t, http.MethodPut, "/api/settings/business", map[string]any{"defaultMarkupPercent": 100})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	biz := settings.DefaultBusiness()
	biz.Currency = "XYZ"
	rr = env.do(t, http.MethodPut, "/api/settings/business", biz)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	biz.Currency = "EUR"
	biz.DefaultMarkupPercent = 100
	rr = env.do(t, http.MethodPut, "/api/settings/business", biz)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	cake := createCake(t, env)
	rr = env.do(t, http.MethodGet, "/api/recipes/"+cake.ID+"/breakdown", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	b := decodeBody[breakdownResponse](t, rr)
	assert.InDelta(t, 32.08, b.SuggestedPrice, 1e-9)
	assert.Equal(t, "EUR", b.Currency)

	rr = env.do(t, http.MethodGet, "/api/settings/theme", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrderSettingsDriveNewOrders(t *testing.T) {
	env := newTestEnv(t, routeOptions{})
	env.login(t)

	ord := settings.DefaultOrder()
	ord.OrderNumberPrefix = "CAKE"
	ord.AutoConfirm = true
	rr := env.do(t, http.MethodPut, "/api/settings/order", ord)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rec := settings.DefaultRecipe()
	rec.PriceRounding = pricing.RoundingNone
	rr = env.do(t, http.MethodPut, "/api/settings/recipe", rec)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	cake := createCake(t, env)
	ana := createCustomer(t, env, "Ana")
	rr = env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId": ana.ID,
		"lines":      []map[string]any{{"recipeId": cake.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	order := decodeBody[bakery.Order](t, rr)

	assert.Equal(t, "CAKE-00001", order.OrderNumber)
	assert.Equal(t, bakery.StatusInProgress, order.Status)
	assert.InDelta(t, 40.10, order.Lines[0].UnitPrice, 1e-9)
}
