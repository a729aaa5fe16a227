package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/o.bakery/internal/bakery"
	"github.com/Simplici0/o.bakery/internal/units"
)

// CreateIngredient validates and inserts an ingredient, assigning its ID.
func (s *Store) CreateIngredient(ctx context.Context, ing bakery.Ingredient) (bakery.Ingredient, error) {
	if err := bakery.Validate(ing); err != nil {
		return bakery.Ingredient{}, err
	}
	ing.ID = uuid.NewString()
	ing.CreatedAt = s.now().UTC()
	ing.UpdatedAt = ing.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (id, name, package_size, package_unit, package_cost, stock_quantity, reorder_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ing.ID, ing.Name, ing.PackageSize, string(ing.PackageUnit), ing.PackageCost, ing.StockQuantity, ing.ReorderLevel,
		formatTime(ing.CreatedAt), formatTime(ing.UpdatedAt))
	if err != nil {
		return bakery.Ingredient{}, fmt.Errorf("insert ingredient: %w", err)
	}
	return ing, nil
}

// UpdateIngredient overwrites an ingredient. Historical order snapshots are
// unaffected. A package unit that a recipe line cannot convert from is
// rejected with bakery.ErrInvalid.
func (s *Store) UpdateIngredient(ctx context.Context, ing bakery.Ingredient) (bakery.Ingredient, error) {
	if err := bakery.Validate(ing); err != nil {
		return bakery.Ingredient{}, err
	}
	ing.UpdatedAt = s.now().UTC()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkLineUnits(ctx, tx, ing); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE ingredients
			SET
				name = ?,
				package_size = ?,
				package_unit = ?,
				package_cost = ?,
				stock_quantity = ?,
				reorder_level = ?,
				updated_at = ?
			WHERE id = ?
		`, ing.Name, ing.PackageSize, string(ing.PackageUnit), ing.PackageCost, ing.StockQuantity, ing.ReorderLevel,
			formatTime(ing.UpdatedAt), ing.ID)
		if err != nil {
			return fmt.Errorf("update ingredient: %w", err)
		}
		return requireAffected(result, "update ingredient")
	})
	if err != nil {
		return bakery.Ingredient{}, err
	}
	return s.GetIngredient(ctx, ing.ID)
}

// checkLineUnits verifies every recipe line using ing can still be
// converted to its package unit.
func checkLineUnits(ctx context.Context, tx *sql.Tx, ing bakery.Ingredient) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT r.name, l.unit
		FROM recipe_lines l
		JOIN recipes r ON r.id = l.recipe_id
		WHERE l.ingredient_id = ?
		ORDER BY r.name, l.position
	`, ing.ID)
	if err != nil {
		return fmt.Errorf("query recipe lines for ingredient: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipe, unit string
		if err := rows.Scan(&recipe, &unit); err != nil {
			return fmt.Errorf("scan recipe line unit: %w", err)
		}
		if !units.Compatible(units.Unit(unit), ing.PackageUnit) {
			return fmt.Errorf("%w: %s measures %s in %s, which cannot convert to %s", bakery.ErrInvalid, recipe, ing.Name, unit, ing.PackageUnit)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate recipe line units: %w", err)
	}
	return nil
}

const ingredientColumns = `id, name, package_size, package_unit, package_cost, stock_quantity, reorder_level, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row rowScanner) (bakery.Ingredient, error) {
	var ing bakery.Ingredient
	var unit, created, updated string
	if err := row.Scan(&ing.ID, &ing.Name, &ing.PackageSize, &unit, &ing.PackageCost, &ing.StockQuantity, &ing.ReorderLevel, &created, &updated); err != nil {
		return bakery.Ingredient{}, err
	}
	ing.PackageUnit = units.Unit(unit)
	var err error
	if ing.CreatedAt, err = parseTime(created); err != nil {
		return bakery.Ingredient{}, err
	}
	if ing.UpdatedAt, err = parseTime(updated); err != nil {
		return bakery.Ingredient{}, err
	}
	return ing, nil
}

func (s *Store) GetIngredient(ctx context.Context, id string) (bakery.Ingredient, error) {
	ing, err := scanIngredient(s.db.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return bakery.Ingredient{}, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return bakery.Ingredient{}, fmt.Errorf("query ingredient: %w", err)
	}
	return ing, nil
}

func (s *Store) ListIngredients(ctx context.Context) ([]bakery.Ingredient, error) {
	return s.queryIngredients(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name, id`)
}

// ListLowStockIngredients returns ingredients at or below their reorder level.
func (s *Store) ListLowStockIngredients(ctx context.Context) ([]bakery.Ingredient, error) {
	return s.queryIngredients(ctx, `
		SELECT `+ingredientColumns+`
		FROM ingredients
		WHERE reorder_level > 0 AND stock_quantity <= reorder_level
		ORDER BY name, id
	`)
}

func (s *Store) queryIngredients(ctx context.Context, query string, args ...any) ([]bakery.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]bakery.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return ingredients, nil
}
