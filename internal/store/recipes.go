package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/units"
)

// CreateRecipe validates a recipe against the stored ingredients and inserts
// it with its lines in one transaction.
func (s *Store) CreateRecipe(ctx context.Context, r bakery.Recipe) (bakery.Recipe, error) {
	if err := s.validateRecipe(ctx, r); err != nil {
		return bakery.Recipe{}, err
	}
	r.ID = uuid.NewString()
	r.CreatedAt = s.now().UTC()
	r.UpdatedAt = r.CreatedAt

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (id, name, servings, labor_minutes, overhead_override, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.Name, r.Servings, r.LaborMinutes, nullableFloat(r.OverheadOverride),
			formatTime(r.CreatedAt), formatTime(r.UpdatedAt)); err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return insertRecipeLines(ctx, tx, r.ID, r.Lines)
	})
	if err != nil {
		return bakery.Recipe{}, err
	}
	return r, nil
}

// UpdateRecipe replaces a recipe's fields and lines.
func (s *Store) UpdateRecipe(ctx context.Context, r bakery.Recipe) (bakery.Recipe, error) {
	if err := s.validateRecipe(ctx, r); err != nil {
		return bakery.Recipe{}, err
	}
	r.UpdatedAt = s.now().UTC()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE recipes
			SET name = ?, servings = ?, labor_minutes = ?, overhead_override = ?, updated_at = ?
			WHERE id = ?
		`, r.Name, r.Servings, r.LaborMinutes, nullableFloat(r.OverheadOverride), formatTime(r.UpdatedAt), r.ID)
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := requireAffected(result, "update recipe"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_lines WHERE recipe_id = ?`, r.ID); err != nil {
			return fmt.Errorf("clear recipe lines: %w", err)
		}
		return insertRecipeLines(ctx, tx, r.ID, r.Lines)
	})
	if err != nil {
		return bakery.Recipe{}, err
	}
	return s.GetRecipe(ctx, r.ID)
}

func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return requireAffected(result, "delete recipe")
}

func (s *Store) validateRecipe(ctx context.Context, r bakery.Recipe) error {
	ingredients, err := s.ListIngredients(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]bakery.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}
	return bakery.ValidateRecipe(r, byID)
}

func insertRecipeLines(ctx context.Context, tx *sql.Tx, recipeID string, lines []bakery.RecipeLine) error {
	for i, line := range lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_lines (recipe_id, position, ingredient_id, quantity, unit)
			VALUES (?, ?, ?, ?, ?)
		`, recipeID, i, line.IngredientID, line.Quantity, string(line.Unit)); err != nil {
			return fmt.Errorf("insert recipe line %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) GetRecipe(ctx context.Context, id string) (bakery.Recipe, error) {
	recipes, err := s.queryRecipes(ctx, `WHERE id = ?`, id)
	if err != nil {
		return bakery.Recipe{}, err
	}
	if len(recipes) == 0 {
		return bakery.Recipe{}, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return recipes[0], nil
}

func (s *Store) ListRecipes(ctx context.Context) ([]bakery.Recipe, error) {
	return s.queryRecipes(ctx, ``)
}

func (s *Store) queryRecipes(ctx context.Context, where string, args ...any) ([]bakery.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, servings, labor_minutes, overhead_override, created_at, updated_at
		FROM recipes
		`+where+`
		ORDER BY name, id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}

	recipes := make([]bakery.Recipe, 0)
	index := map[string]int{}
	for rows.Next() {
		var r bakery.Recipe
		var override sql.NullFloat64
		var created, updated string
		if err := rows.Scan(&r.ID, &r.Name, &r.Servings, &r.LaborMinutes, &override, &created, &updated); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		r.OverheadOverride = floatPtr(override)
		if r.CreatedAt, err = parseTime(created); err != nil {
			rows.Close()
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(updated); err != nil {
			rows.Close()
			return nil, err
		}
		r.Lines = []bakery.RecipeLine{}
		index[r.ID] = len(recipes)
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	rows.Close()

	if len(recipes) == 0 {
		return recipes, nil
	}
	if err := s.attachRecipeLines(ctx, recipes, index); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *Store) attachRecipeLines(ctx context.Context, recipes []bakery.Recipe, index map[string]int) error {
	ids := make([]string, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	in, args := inClause(ids)
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipe_id, ingredient_id, quantity, unit
		FROM recipe_lines
		WHERE recipe_id IN `+in+`
		ORDER BY recipe_id, position
	`, args...)
	if err != nil {
		return fmt.Errorf("query recipe lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID, unit string
		var line bakery.RecipeLine
		if err := rows.Scan(&recipeID, &line.IngredientID, &line.Quantity, &unit); err != nil {
			return fmt.Errorf("scan recipe line: %w", err)
		}
		i, ok := index[recipeID]
		if !ok {
			continue
		}
		line.Unit = units.Unit(unit)
		recipes[i].Lines = append(recipes[i].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate recipe lines: %w", err)
	}
	return nil
}
