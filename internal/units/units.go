package units

import (
	"errors"
	"fmt"
	"strings"
)

// Unit is a unit of measure as written on ingredients and recipe lines.
type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Ounce      Unit = "oz"
	Pound      Unit = "lb"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Teaspoon   Unit = "tsp"
	Tablespoon Unit = "tbsp"
	Cup        Unit = "cup"
	Piece      Unit = "pc"
)

// Family groups units that can be converted into one another.
type Family string

const (
	Mass   Family = "mass"
	Volume Family = "volume"
	Count  Family = "count"
)

var (
	// ErrUnknownUnit is returned for units outside the supported table.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrIncompatible is returned when converting between families.
	ErrIncompatible = errors.New("incompatible units")
)

type unitInfo struct {
	family Family
	// toBase is the amount of base unit (g, ml, pc) in one of this unit.
	toBase float64
}

var table = map[Unit]unitInfo{
	Gram:       {Mass, 1},
	Kilogram:   {Mass, 1000},
	Ounce:      {Mass, 28.349523125},
	Pound:      {Mass, 453.59237},
	Milliliter: {Volume, 1},
	Liter:      {Volume, 1000},
	Teaspoon:   {Volume, 4.92892159375},
	Tablespoon: {Volume, 14.78676478125},
	Cup:        {Volume, 236.5882365},
	Piece:      {Count, 1},
}

var aliases = map[string]Unit{
	"gram": Gram, "grams": Gram, "gr": Gram,
	"kilogram": Kilogram, "kilograms": Kilogram, "kgs": Kilogram,
	"ounce": Ounce, "ounces": Ounce,
	"pound": Pound, "pounds": Pound, "lbs": Pound,
	"milliliter": Milliliter, "milliliters": Milliliter, "mL": Milliliter,
	"liter": Liter, "liters": Liter, "litre": Liter, "L": Liter,
	"teaspoon": Teaspoon, "teaspoons": Teaspoon,
	"tablespoon": Tablespoon, "tablespoons": Tablespoon,
	"cups":  Cup,
	"piece": Piece, "pieces": Piece, "each": Piece, "unit": Piece, "units": Piece,
}

// Parse normalises a user supplied unit name.
func Parse(raw string) (Unit, error) {
	s := strings.TrimSpace(raw)
	if u, ok := aliases[s]; ok {
		return u, nil
	}
	s = strings.ToLower(s)
	if u, ok := aliases[s]; ok {
		return u, nil
	}
	if _, ok := table[Unit(s)]; ok {
		return Unit(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, raw)
}

// FamilyOf reports the family a unit belongs to.
func FamilyOf(u Unit) (Family, error) {
	info, ok := table[u]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, u)
	}
	return info.family, nil
}

// Valid reports whether u is a supported unit.
func Valid(u Unit) bool {
	_, ok := table[u]
	return ok
}

// ToBase converts qty of u into the family's base unit.
func ToBase(qty float64, u Unit) (float64, error) {
	info, ok := table[u]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, u)
	}
	return qty * info.toBase, nil
}

// Convert converts qty from one unit to another within the same family.
func Convert(qty float64, from, to Unit) (float64, error) {
	src, ok := table[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	dst, ok := table[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	if src.family != dst.family {
		return 0, fmt.Errorf("%w: %s (%s) to %s (%s)", ErrIncompatible, from, src.family, to, dst.family)
	}
	return qty * src.toBase / dst.toBase, nil
}

// Compatible reports whether a and b share a family.
func Compatible(a, b Unit) bool {
	ia, okA := table[a]
	ib, okB := table[b]
	return okA && okB && ia.family == ib.family
}
