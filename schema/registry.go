package schema

import (
	"errors"
	"fmt"
	"strings"

	"rstyle/common"
)

// PropertyContributor adds properties to the catalog. Contributed
// definitions are appended after the built-in ones, in contributor order.
type PropertyContributor interface {
	Properties() []Definition
}

// ContributorFunc adapts a function to PropertyContributor.
type ContributorFunc func() []Definition

func (f ContributorFunc) Properties() []Definition { return f() }

// Registry is the immutable set of supported properties. It is built once at
// startup and shared by the validator and the generator.
type Registry struct {
	order []Definition
	index map[string]int
}

// New builds a registry from the built-in catalog plus contributed properties.
func New(contributors ...PropertyContributor) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	for _, d := range builtins() {
		if err := r.add(d); err != nil {
			return nil, err
		}
	}
	for _, c := range contributors {
		if c == nil {
			continue
		}
		for _, d := range c.Properties() {
			if d.Group == "" {
				d.Group = common.GroupExtension
			}
			if err := r.add(d); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// MustNew is New for static setups and tests.
func MustNew(contributors ...PropertyContributor) *Registry {
	r, err := New(contributors...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(d Definition) error {
	if d.Key == "" {
		return errors.New("property definition without key")
	}
	if _, exists := r.index[d.Key]; exists {
		return fmt.Errorf("property %q is already defined", d.Key)
	}
	if !d.Type.IsValid() {
		return fmt.Errorf("property %q: %w", d.Key, common.ErrInvalidPropertyType)
	}
	if d.CSS == "" && d.Render == nil {
		return fmt.Errorf("property %q has neither CSS name nor renderer", d.Key)
	}
	if strings.ContainsAny(d.CSS, ":;{}<> ") {
		return fmt.Errorf("property %q has invalid CSS name %q", d.Key, d.CSS)
	}
	switch d.Type {
	case common.PropertyTypeDimension:
		if len(d.AllowedUnits) == 0 {
			return fmt.Errorf("dimension property %q has no allowed units", d.Key)
		}
		for u, r := range d.Ranges {
			if r[0] > r[1] {
				return fmt.Errorf("dimension property %q has invalid range for unit %q", d.Key, u)
			}
		}
	case common.PropertyTypeSelect:
		if len(d.AllowedValues) == 0 {
			return fmt.Errorf("select property %q has no allowed values", d.Key)
		}
	case common.PropertyTypeRange:
		if !d.HasRange || d.Min > d.Max {
			return fmt.Errorf("range property %q needs a valid range", d.Key)
		}
	}
	if d.Proportional && !d.ProportionType.IsValid() {
		d.ProportionType = common.ProportionTypeGeneral
	}
	r.index[d.Key] = len(r.order)
	r.order = append(r.order, d)
	return nil
}

// Definition returns the property definition for key.
func (r *Registry) Definition(key string) (Definition, bool) {
	i, ok := r.index[key]
	if !ok {
		return Definition{}, false
	}
	return r.order[i], true
}

// IsSupported reports whether key is a known property.
func (r *Registry) IsSupported(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Definitions returns all properties in canonical order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.order))
	copy(out, r.order)
	return out
}

// Keys returns property keys in canonical order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	for i, d := range r.order {
		keys[i] = d.Key
	}
	return keys
}
