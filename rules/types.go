// Package rules defines rule sets as they are stored and rendered, and the
// errors operations on them report.
package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"rstyle/common"
	"rstyle/units"
)

// ValueKind tells how a validated value is stored.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindDimension
)

// Value is a validated property value.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Unit   units.Unit
}

func Text(s string) Value { return Value{Kind: KindText, Text: s} }

func Number(v float64) Value { return Value{Kind: KindNumber, Number: v} }

func Dim(v float64, u units.Unit) Value { return Value{Kind: KindDimension, Number: v, Unit: u} }

func FromDimension(d units.Dimension) Value { return Dim(d.Value, d.Unit) }

// Dimension returns the value as a dimension, false for other kinds.
func (v Value) Dimension() (units.Dimension, bool) {
	if v.Kind != KindDimension {
		return units.Dimension{}, false
	}
	return units.Dimension{Value: v.Number, Unit: v.Unit}, true
}

// CSS returns the value formatted as CSS text.
func (v Value) CSS() string {
	switch v.Kind {
	case KindDimension:
		return units.FormatDimension(v.Number, v.Unit)
	case KindNumber:
		return units.FormatNumber(v.Number)
	default:
		return v.Text
	}
}

type jsonDimension struct {
	Value *float64   `json:"value,omitempty"`
	Unit  units.Unit `json:"unit"`
}

// MarshalJSON writes values in the shape the editor submits them:
// {"value":16,"unit":"px"} for dimensions, bare numbers and strings otherwise.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindDimension:
		jd := jsonDimension{Unit: v.Unit}
		if v.Unit != units.Auto {
			n := v.Number
			jd.Value = &n
		}
		return json.Marshal(jd)
	case KindNumber:
		return json.Marshal(v.Number)
	default:
		return json.Marshal(v.Text)
	}
}

// UnmarshalJSON infers the kind from the JSON shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty value")
	}
	switch data[0] {
	case '{':
		var jd jsonDimension
		if err := json.Unmarshal(data, &jd); err != nil {
			return err
		}
		*v = Value{Kind: KindDimension, Unit: jd.Unit}
		if jd.Value != nil {
			v.Number = *jd.Value
		}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported value %s: %w", data, err)
		}
		*v = Number(n)
	}
	return nil
}

// Properties maps property keys to values for one breakpoint.
type Properties map[string]Value

// BreakpointRules maps breakpoint names to their properties.
type BreakpointRules map[string]Properties

// Clone returns a deep copy.
func (br BreakpointRules) Clone() BreakpointRules {
	if br == nil {
		return nil
	}
	out := make(BreakpointRules, len(br))
	for bp, props := range br {
		out[bp] = maps.Clone(props)
	}
	return out
}

// Empty reports whether no breakpoint has any property.
func (br BreakpointRules) Empty() bool {
	for _, props := range br {
		if len(props) > 0 {
			return false
		}
	}
	return true
}

// Key identifies the single active rule set for a selector in a scope.
type Key struct {
	Selector string
	Scope    common.Scope
	PageID   int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%s", k.Scope, k.PageID, k.Selector)
}

// RuleSet is one selector in one scope with its per-breakpoint properties.
type RuleSet struct {
	ID           int64           `json:"id"`
	Selector     string          `json:"selector"`
	Scope        common.Scope    `json:"scope"`
	PageID       int64           `json:"page_id"`
	ElementID    string          `json:"element_id,omitempty"`
	ElementClass string          `json:"element_class,omitempty"`
	Rules        BreakpointRules `json:"rules"`
	Priority     int             `json:"priority"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Key returns the uniqueness tuple of the rule set.
func (rs RuleSet) Key() Key {
	return Key{Selector: rs.Selector, Scope: rs.Scope, PageID: rs.PageID}
}

// Payload is a raw rule submission from the editor. Rules hold decoded JSON
// (map[string]any per breakpoint) and are validated before use.
type Payload struct {
	Selector     string         `json:"selector"`
	Scope        string         `json:"scope"`
	PageID       int64          `json:"page_id"`
	ElementID    string         `json:"element_id"`
	ElementClass string         `json:"element_class"`
	Rules        map[string]any `json:"rules"`
	Priority     int            `json:"priority"`
	// Replace discards breakpoints not present in Rules instead of keeping
	// the stored ones.
	Replace bool `json:"replace"`
}
