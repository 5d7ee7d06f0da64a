package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	u, err := Parse(" MM ")
	require.NoError(t, err)
	assert.Equal(t, Millimeter, u)

	u, err = Parse("cm")
	require.NoError(t, err)
	assert.Equal(t, Centimeter, u)

	_, err = Parse("in")
	assert.Error(t, err)
}

func TestCubicCentimeters(t *testing.T) {
	// a 10 mm cube is one cubic centimetre
	assert.InDelta(t, 1.0, Millimeter.CubicCentimeters(1000), 1e-6)
	assert.InDelta(t, 1000.0, Centimeter.CubicCentimeters(1000), 1e-6)
}

func TestUnitSwitchRescalesBy1000(t *testing.T) {
	raw := float32(4188.79)
	mm := Millimeter.CubicCentimeters(raw)
	cm := Centimeter.CubicCentimeters(raw)
	assert.InEpsilon(t, 1000.0, cm/mm, 1e-5)
}

func TestGrams(t *testing.T) {
	assert.InDelta(t, 0.8, Grams(1, WaxDensity), 1e-6)
	assert.Equal(t, "12.35 cm³", FormatVolume(12.345))
	assert.Equal(t, "0.80 g", FormatWeight(Grams(1, WaxDensity)))
}
