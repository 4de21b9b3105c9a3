// Package breakpoints keeps the ordered set of named viewport buckets rules
// can be assigned to.
package breakpoints

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Built-in breakpoint names.
const (
	Mobile  = "mobile"
	Tablet  = "tablet"
	Desktop = "desktop"
)

// Definition is a named breakpoint. An empty MediaQuery marks the base
// breakpoint whose rules are emitted without @media wrapping. Width and
// Height are the reference viewport used for proportional scaling.
type Definition struct {
	Name       string  `yaml:"name" json:"name"`
	MediaQuery string  `yaml:"media_query" json:"media_query"`
	Width      float64 `yaml:"width" json:"width"`
	Height     float64 `yaml:"height" json:"height"`
}

// IsBase reports whether this is the unconditional breakpoint.
func (d Definition) IsBase() bool {
	return strings.TrimSpace(d.MediaQuery) == ""
}

// Defaults returns the built-in breakpoints.
func Defaults() []Definition {
	return []Definition{
		{Name: Mobile, MediaQuery: "(max-width: 767px)", Width: 375, Height: 667},
		{Name: Tablet, MediaQuery: "(min-width: 768px) and (max-width: 1023px)", Width: 768, Height: 1024},
		{Name: Desktop, MediaQuery: "", Width: 1920, Height: 1080},
	}
}

// ErrSecondBase is returned when registering another breakpoint without media query.
var ErrSecondBase = errors.New("only one breakpoint may have an empty media query")

// Registry is safe for concurrent use. Registration normally happens at
// startup; readers afterwards only look things up.
type Registry struct {
	mu    sync.RWMutex
	order []string
	defs  map[string]Definition
}

// New creates a registry seeded with the given definitions.
func New(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition)}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewDefault creates a registry with the built-in mobile, tablet and desktop breakpoints.
func NewDefault() *Registry {
	r, err := New(Defaults()...)
	if err != nil {
		// this should never happen
		panic(err)
	}
	return r
}

// Register adds a breakpoint or overwrites an existing one with the same name.
// Overwriting keeps the original position.
func (r *Registry) Register(d Definition) error {
	d.Name = strings.TrimSpace(d.Name)
	d.MediaQuery = strings.TrimSpace(d.MediaQuery)
	if d.Name == "" {
		return errors.New("breakpoint name is required")
	}
	if strings.ContainsAny(d.MediaQuery, "{};<>") {
		return fmt.Errorf("breakpoint %q: invalid media query %q", d.Name, d.MediaQuery)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("breakpoint %q: reference size must be positive, got %gx%g", d.Name, d.Width, d.Height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d.IsBase() {
		for _, name := range r.order {
			if name != d.Name && r.defs[name].IsBase() {
				return fmt.Errorf("breakpoint %q: %w (%q already is)", d.Name, ErrSecondBase, name)
			}
		}
	}
	if _, exists := r.defs[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	r.defs[d.Name] = d
	return nil
}

// Get returns the breakpoint with the given name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// Has reports whether name is a registered breakpoint.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// All returns breakpoints in registration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Names returns breakpoint names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Base returns the breakpoint without media query, if any.
func (r *Registry) Base() (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		if d := r.defs[name]; d.IsBase() {
			return d, true
		}
	}
	return Definition{}, false
}

// ResolveMediaQuery returns the media query for name. Base breakpoint
// resolves to an empty string.
func (r *Registry) ResolveMediaQuery(name string) (string, bool) {
	d, ok := r.Get(name)
	if !ok {
		return "", false
	}
	return d.MediaQuery, true
}
