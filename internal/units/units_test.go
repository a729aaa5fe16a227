package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_WithinFamily(t *testing.T) {
	got, err := Convert(2, Kilogram, Gram)
	require.NoError(t, err)
	assert.InDelta(t, 2000, got, 1e-9)

	got, err = Convert(1, Pound, Ounce)
	require.NoError(t, err)
	assert.InDelta(t, 16, got, 1e-9)

	got, err = Convert(3, Teaspoon, Tablespoon)
	require.NoError(t, err)
	assert.InDelta(t, 1, got, 1e-9)

	got, err = Convert(1, Liter, Cup)
	require.NoError(t, err)
	assert.InDelta(t, 4.2267528, got, 1e-6)
}

func TestConvert_AcrossFamiliesFails(t *testing.T) {
	_, err := Convert(100, Gram, Milliliter)
	require.ErrorIs(t, err, ErrIncompatible)

	_, err = Convert(1, Cup, Piece)
	require.ErrorIs(t, err, ErrIncompatible)
}

func TestConvert_UnknownUnit(t *testing.T) {
	_, err := Convert(1, Unit("pinch"), Gram)
	require.ErrorIs(t, err, ErrUnknownUnit)

	_, err = ToBase(1, Unit("stone"))
	require.ErrorIs(t, err, ErrUnknownUnit)
}

func TestParse_Aliases(t *testing.T) {
	cases := map[string]Unit{
		"g":      Gram,
		" KG ":   Kilogram,
		"Cups":   Cup,
		"mL":     Milliliter,
		"L":      Liter,
		"pounds": Pound,
		"each":   Piece,
	}
	for raw, want := range cases {
		got, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := Parse("handful")
	require.ErrorIs(t, err, ErrUnknownUnit)
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible(Gram, Pound))
	assert.True(t, Compatible(Tablespoon, Liter))
	assert.False(t, Compatible(Gram, Cup))
	assert.False(t, Compatible(Gram, Unit("x")))
}
