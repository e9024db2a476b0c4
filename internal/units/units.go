// Package units converts "value*unit" quantities into the internal unit system
// (millimetre, radian, g/cm3, gram) and formats values with the most readable unit.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	Millimetre = 1.0
	Centimetre = 10.0
	Metre      = 1000.0
	Micrometre = 1e-3
	Nanometre  = 1e-6
	Inch       = 25.4

	Radian      = 1.0
	Milliradian = 1e-3
	Degree      = math.Pi / 180

	Gram     = 1.0
	Kilogram = 1000.0
)

var scale = map[string]float64{
	"mm":     Millimetre,
	"cm":     Centimetre,
	"m":      Metre,
	"um":     Micrometre,
	"nm":     Nanometre,
	"inch":   Inch,
	"rad":    Radian,
	"mrad":   Milliradian,
	"deg":    Degree,
	"g":      Gram,
	"kg":     Kilogram,
	"g/cm3":  1,
	"mg/cm3": 1e-3,
	"kg/m3":  1e-3,
}

// Parse reads a quantity such as "2*cm", "-11*cm", "30*deg" or a bare number. Bare numbers are
// returned unchanged, i.e. already in internal units.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	value, unit, hasUnit := strings.Cut(s, "*")
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("quantity %q: %w", s, err)
	}
	if !hasUnit {
		return v, nil
	}
	f, ok := scale[strings.TrimSpace(unit)]
	if !ok {
		return 0, fmt.Errorf("quantity %q: unknown unit %q", s, unit)
	}
	return v * f, nil
}

// ParseList parses whitespace separated quantities.
func ParseList(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Category selects the unit family used by Best.
type Category string

const (
	Length  Category = "Length"
	Angle   Category = "Angle"
	Volume  Category = "Volume"
	Surface Category = "Surface"
	Mass    Category = "Mass"
)

type named struct {
	symbol string
	factor float64
}

// ordered from largest to smallest.
var families = map[Category][]named{
	Length:  {{"m", Metre}, {"cm", Centimetre}, {"mm", Millimetre}, {"um", Micrometre}, {"nm", Nanometre}},
	Angle:   {{"deg", Degree}, {"mrad", Milliradian}},
	Volume:  {{"m3", 1e9}, {"cm3", 1e3}, {"mm3", 1}},
	Surface: {{"m2", 1e6}, {"cm2", 1e2}, {"mm2", 1}},
	Mass:    {{"t", 1e6}, {"kg", Kilogram}, {"g", Gram}, {"mg", 1e-3}},
}

// Best formats value with the largest unit of its category for which the magnitude is >= 1.
func Best(value float64, cat Category) string {
	units, ok := families[cat]
	if !ok || len(units) == 0 {
		return strconv.FormatFloat(value, 'g', 6, 64)
	}
	chosen := units[len(units)-1]
	if value != 0 {
		for _, u := range units {
			if math.Abs(value)/u.factor >= 1 {
				chosen = u
				break
			}
		}
	}
	return fmt.Sprintf("%s %s", strconv.FormatFloat(value/chosen.factor, 'g', 6, 64), chosen.symbol)
}
