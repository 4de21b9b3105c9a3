// Package units models CSS lengths as value/unit pairs and converts between
// the units the editor supports.
package units

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Unit is a CSS length unit. The empty unit is a bare number (line-height: 1.4).
type Unit string

const (
	Px       Unit = "px"
	Percent  Unit = "%"
	Em       Unit = "em"
	Rem      Unit = "rem"
	Vw       Unit = "vw"
	Vh       Unit = "vh"
	Pt       Unit = "pt"
	Auto     Unit = "auto"
	Unitless Unit = ""
)

// BaseFontSize is the root font size in pixels used for em and rem.
const BaseFontSize = 16.0

// pixels per point
const ptToPx = 96.0 / 72.0

var known = map[Unit]struct{}{
	Px: {}, Percent: {}, Em: {}, Rem: {}, Vw: {}, Vh: {}, Pt: {}, Auto: {}, Unitless: {},
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	_, ok := known[u]
	return ok
}

// ParseUnit normalizes unit spelling (case, whitespace).
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	return u, u.Valid()
}

// Dimension is a numeric value with its unit.
type Dimension struct {
	Value float64
	Unit  Unit
}

// IsAuto returns true for the bare "auto" keyword.
func (d Dimension) IsAuto() bool {
	return d.Unit == Auto
}

// String returns CSS text for the dimension.
func (d Dimension) String() string {
	if d.Unit == Auto {
		return string(Auto)
	}
	return FormatNumber(d.Value) + string(d.Unit)
}

// FormatNumber formats v with the shortest representation, no exponent.
func FormatNumber(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDimension renders value with unit. Empty or non numeric values
// produce an empty string, otherwise unit auto produces the bare keyword.
func FormatDimension(value any, unit Unit) string {
	v, ok := Number(value)
	if !ok {
		return ""
	}
	if unit == Auto {
		return string(Auto)
	}
	return FormatNumber(v) + string(unit)
}

// Number extracts a finite number from decoded JSON/YAML values and numeric strings.
func Number(value any) (float64, bool) {
	var v float64
	switch n := value.(type) {
	case nil:
		return 0, false
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case int32:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint64:
		v = float64(n)
	case interface{ Float64() (float64, error) }:
		// json.Number
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDimension parses CSS text like "16px", "1.5em", "50%", "auto" or "12".
func ParseDimension(s string) (Dimension, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Dimension{}, false
	}
	if s == string(Auto) {
		return Dimension{Unit: Auto}, true
	}

	// Find where number ends
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || (i == 0 && (r == '-' || r == '+')) {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return Dimension{}, false
	}
	v, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return Dimension{}, false
	}
	u, ok := ParseUnit(s[numEnd:])
	if !ok || u == Auto {
		return Dimension{}, false
	}
	return Dimension{Value: v, Unit: u}, true
}

// Axis selects which viewport side percentages resolve against.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Viewport is the reference size (in pixels) for relative units.
type Viewport struct {
	Width  float64
	Height float64
}

func (vp Viewport) side(axis Axis) float64 {
	if axis == Vertical {
		return vp.Height
	}
	return vp.Width
}

// toPx returns the size of one unit in pixels.
func toPx(u Unit, vp Viewport, axis Axis) (float64, bool) {
	switch u {
	case Px:
		return 1, true
	case Pt:
		return ptToPx, true
	case Em, Rem:
		return BaseFontSize, true
	case Percent:
		return vp.side(axis) / 100, vp.side(axis) > 0
	case Vw:
		return vp.Width / 100, vp.Width > 0
	case Vh:
		return vp.Height / 100, vp.Height > 0
	default:
		return 0, false
	}
}

// Convert converts value between units through absolute pixels. When the
// pair cannot be converted (auto, unitless, unknown units, missing viewport
// size) the original value is returned together with false.
func Convert(value float64, from, to Unit, vp Viewport, axis Axis) (float64, bool) {
	if from == to {
		return value, true
	}
	f, ok := toPx(from, vp, axis)
	if !ok {
		return value, false
	}
	t, ok := toPx(to, vp, axis)
	if !ok || t == 0 {
		return value, false
	}
	return value * f / t, true
}

// ConvertUnit is Convert without the convertibility flag.
func ConvertUnit(value float64, from, to Unit, vp Viewport, axis Axis) float64 {
	v, _ := Convert(value, from, to, vp, axis)
	return v
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
