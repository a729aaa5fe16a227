package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/units"
)

// normalizeUnit maps aliases such as "grams" onto canonical units. Unknown
// values are left for validation to reject.
func normalizeUnit(u units.Unit) units.Unit {
	if parsed, err := units.Parse(string(u)); err == nil {
		return parsed
	}
	return u
}

func (s *server) handleIngredientsList(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.store.ListIngredients(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

func (s *server) handleIngredientsLowStock(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.store.ListLowStockIngredients(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

func (s *server) handleIngredientGet(w http.ResponseWriter, r *http.Request) {
	ing, err := s.store.GetIngredient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

func (s *server) handleIngredientsCreate(w http.ResponseWriter, r *http.Request) {
	var in bakery.Ingredient
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	in.PackageUnit = normalizeUnit(in.PackageUnit)

	created, err := s.store.CreateIngredient(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleIngredientUpdate(w http.ResponseWriter, r *http.Request) {
	var in bakery.Ingredient
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	in.PackageUnit = normalizeUnit(in.PackageUnit)

	updated, err := s.store.UpdateIngredient(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleRecipesList(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.store.ListRecipes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (s *server) handleRecipeGet(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.store.GetRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func decodeRecipe(w http.ResponseWriter, r *http.Request) (bakery.Recipe, error) {
	var in bakery.Recipe
	if err := decodeJSON(w, r, &in); err != nil {
		return bakery.Recipe{}, err
	}
	for i := range in.Lines {
		in.Lines[i].Unit = normalizeUnit(in.Lines[i].Unit)
	}
	return in, nil
}

func (s *server) handleRecipesCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeRecipe(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if in.Servings == 0 {
		recipeSettings, err := s.settings.Recipe(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		in.Servings = recipeSettings.DefaultServings
	}

	created, err := s.store.CreateRecipe(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleRecipeUpdate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeRecipe(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	in.ID = chi.URLParam(r, "id")

	updated, err := s.store.UpdateRecipe(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleRecipeDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRecipe(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCustomersList(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.ListCustomers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *server) handleCustomerGet(w http.ResponseWriter, r *http.Request) {
	customer, err := s.store.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *server) handleCustomersCreate(w http.ResponseWriter, r *http.Request) {
	var in bakery.Customer
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.store.CreateCustomer(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
