// Package schema is the catalog of CSS properties the editor can assign.
//
// Every property has a stable key used by the editor and in stored rule sets
// (font_size, margin_top, ...), the CSS property it renders to, its value
// type and the constraints the validator enforces. Catalog order is the
// canonical declaration order used by the generator.
package schema

import (
	"slices"

	"rstyle/common"
	"rstyle/units"
)

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property string
	Value    string
}

// RenderFunc turns an already formatted value into declarations. Properties
// without one render to a single declaration of Definition.CSS.
type RenderFunc func(value string) []Declaration

// Definition describes one supported property.
type Definition struct {
	Key  string // editor key, e.g. "font_size"
	CSS  string // CSS property name, e.g. "font-size"
	Type common.PropertyType

	AllowedUnits  []units.Unit // dimension: first entry is the fallback unit
	AllowedValues []string     // select

	// Numeric range for dimension and range types. Ranges overrides Min/Max
	// for dimensions in the given unit.
	HasRange bool
	Min, Max float64
	Ranges   map[units.Unit][2]float64

	Group          common.Group
	Proportional   bool
	ProportionType common.ProportionType

	// RequiresDisplay gates emission on the display value of the same breakpoint.
	RequiresDisplay string

	Render RenderFunc
}

// AllowsUnit reports whether u may be used with this property.
func (d Definition) AllowsUnit(u units.Unit) bool {
	return slices.Contains(d.AllowedUnits, u)
}

// DefaultUnit is the unit invalid units are coerced to.
func (d Definition) DefaultUnit() units.Unit {
	if len(d.AllowedUnits) == 0 {
		return units.Unitless
	}
	return d.AllowedUnits[0]
}

// AllowsValue reports whether v is one of the enumerated select values.
func (d Definition) AllowsValue(v string) bool {
	return slices.Contains(d.AllowedValues, v)
}

// InRange reports whether v satisfies the declared numeric range.
func (d Definition) InRange(v float64) bool {
	if !d.HasRange {
		return true
	}
	return v >= d.Min && v <= d.Max
}

// Range returns bounds for a value in unit u.
func (d Definition) Range(u units.Unit) (lo, hi float64) {
	if r, ok := d.Ranges[u]; ok {
		return r[0], r[1]
	}
	return d.Min, d.Max
}

// InUnitRange is InRange for a dimension expressed in unit u.
func (d Definition) InUnitRange(v float64, u units.Unit) bool {
	if !d.HasRange {
		return true
	}
	lo, hi := d.Range(u)
	return v >= lo && v <= hi
}

// Clamp limits v to the range of unit u.
func (d Definition) Clamp(v float64, u units.Unit) float64 {
	if !d.HasRange {
		return v
	}
	lo, hi := d.Range(u)
	return max(lo, min(hi, v))
}

// Declarations renders value (already formatted CSS text) for this property.
func (d Definition) Declarations(value string) []Declaration {
	if d.Render != nil {
		return d.Render(value)
	}
	return []Declaration{{Property: d.CSS, Value: value}}
}
