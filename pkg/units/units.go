// Package units converts raw model volumes into display units
package units

import (
	"fmt"
	"strings"
)

// Unit is the linear unit the model file was authored in
type Unit string

const (
	Millimeter Unit = "mm"
	Centimeter Unit = "cm"
)

// WaxDensity is the default density in g/cm³
const WaxDensity = 0.8

// Parse accepts "mm" or "cm" in any case
func Parse(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case Millimeter:
		return Millimeter, nil
	case Centimeter:
		return Centimeter, nil
	}
	return "", fmt.Errorf("unknown unit %q (want mm or cm)", s)
}

// Scale returns the length of one unit in centimetres
func (u Unit) Scale() float32 {
	if u == Centimeter {
		return 1
	}
	return 0.1
}

// CubicCentimeters converts a raw volume in unit³ to cm³
func (u Unit) CubicCentimeters(raw float32) float32 {
	s := u.Scale()
	return raw * s * s * s
}

// Grams returns the weight of a volume in cm³ at density g/cm³
func Grams(cm3, density float32) float32 {
	return cm3 * density
}

// FormatVolume renders a cm³ value for display
func FormatVolume(cm3 float32) string {
	return fmt.Sprintf("%.2f cm³", cm3)
}

// FormatWeight renders a gram value for display
func FormatWeight(grams float32) string {
	return fmt.Sprintf("%.2f g", grams)
}
