package bakery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Simplici0/o.bakery/internal/units"
)

// ErrInvalid wraps every boundary validation failure.
var ErrInvalid = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		return units.Valid(units.Unit(fl.Field().String()))
	})
	return v
}

// Validate checks an entity's field rules.
func Validate(entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// ValidateRecipe checks field rules and that every line's unit is
// convertible to its ingredient's package unit.
func ValidateRecipe(r Recipe, ingredients map[string]Ingredient) error {
	if err := Validate(r); err != nil {
		return err
	}
	for i, line := range r.Lines {
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			return fmt.Errorf("%w: line %d references unknown ingredient %q", ErrInvalid, i, line.IngredientID)
		}
		if !units.Compatible(line.Unit, ing.PackageUnit) {
			return fmt.Errorf("%w: line %d uses %s but %s is sold in %s", ErrInvalid, i, line.Unit, ing.Name, ing.PackageUnit)
		}
	}
	return nil
}

var transitions = map[OrderStatus][]OrderStatus{
	StatusNew:        {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusReady, StatusCancelled},
	StatusReady:      {StatusDelivered, StatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
