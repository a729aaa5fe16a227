package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/pricing"
	"github.com/Simplici0/o.bakery/internal/settings"
)

type breakdownResponse struct {
	pricing.Breakdown
	RecipeID     string              `json:"recipeId"`
	RecipeName   string              `json:"recipeName"`
	Servings     int                 `json:"servings"`
	Currency     string              `json:"currency"`
	MarginBadge  pricing.MarginBadge `json:"marginBadge"`
	RoundedPrice float64             `json:"roundedPrice"`
}

type strategiesResponse struct {
	RecipeID        string               `json:"recipeId"`
	Currency        string               `json:"currency"`
	TotalCost       float64              `json:"totalCost"`
	CompetitorPrice float64              `json:"competitorPrice,omitempty"`
	Strategies      []pricing.Comparison `json:"strategies"`
	Psychological   []pricing.Comparison `json:"psychological"`
}

type whatIfRequest struct {
	TotalCost float64 `json:"totalCost" validate:"gte=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type psychologicalResponse struct {
	Price      float64   `json:"price"`
	Candidates []float64 `json:"candidates"`
}

// costRecipe loads a recipe with the current ingredient prices and business
// rates and computes its breakdown.
func (s *server) costRecipe(ctx context.Context, id string) (bakery.Recipe, pricing.Breakdown, settings.Business, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return bakery.Recipe{}, pricing.Breakdown{}, settings.Business{}, err
	}
	ingredients, err := s.store.ListIngredients(ctx)
	if err != nil {
		return bakery.Recipe{}, pricing.Breakdown{}, settings.Business{}, err
	}
	biz, err := s.settings.Business(ctx)
	if err != nil {
		return bakery.Recipe{}, pricing.Breakdown{}, settings.Business{}, err
	}
	b, err := pricing.ComputeBreakdown(recipe, pricing.IndexIngredients(ingredients), biz)
	if err != nil {
		return bakery.Recipe{}, pricing.Breakdown{}, settings.Business{}, err
	}
	return recipe, b, biz, nil
}

func (s *server) handleRecipeBreakdown(w http.ResponseWriter, r *http.Request) {
	recipe, b, biz, err := s.costRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	recipeSettings, err := s.settings.Recipe(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, breakdownResponse{
		Breakdown:    b,
		RecipeID:     recipe.ID,
		RecipeName:   recipe.Name,
		Servings:     recipe.Servings,
		Currency:     biz.Currency,
		MarginBadge:  pricing.ClassifyMargin(b.ProfitMargin),
		RoundedPrice: pricing.RoundPrice(b.SuggestedPrice, recipeSettings.PriceRounding),
	})
}

func (s *server) handleRecipeStrategies(w http.ResponseWriter, r *http.Request) {
	competitor, err := queryFloat(r, "competitor")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	recipe, b, biz, err := s.costRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, strategiesResponse{
		RecipeID:        recipe.ID,
		Currency:        biz.Currency,
		TotalCost:       b.TotalCost,
		CompetitorPrice: competitor,
		Strategies:      pricing.CompareStrategies(b, competitor),
		Psychological:   pricing.PsychologicalComparisons(b),
	})
}

func (s *server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	var req whatIfRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := bakery.Validate(req); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.Evaluate(req.TotalCost, req.Price))
}

func (s *server) handlePsychological(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("price") == "" {
		s.respondError(w, r, fmt.Errorf("%w: price is required", errBadRequest))
		return
	}
	price, err := queryFloat(r, "price")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if price > pricing.MaxPsychologicalPrice {
		s.respondError(w, r, fmt.Errorf("%w: price must be at most %.0f", errBadRequest, pricing.MaxPsychologicalPrice))
		return
	}
	writeJSON(w, http.StatusOK, psychologicalResponse{
		Price:      price,
		Candidates: pricing.ApplyPsychologicalPricing(price),
	})
}
