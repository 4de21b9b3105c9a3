// Package validate cleans raw rule submissions against the property schema
// and the breakpoint registry.
//
// Individual invalid properties are dropped rather than failing the whole
// submission: the editor saves incrementally and one malformed field must
// not block the rest. A submission fails only when its selector or scope is
// unusable or when nothing valid remains.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rstyle/breakpoints"
	"rstyle/common"
	"rstyle/rules"
	"rstyle/schema"
	"rstyle/units"
)

// DefaultMaxStringLength bounds free text values (font stacks, shadows, transforms).
const DefaultMaxStringLength = 500

// Limits configures validator bounds. Zero values mean defaults.
type Limits struct {
	MaxSelectorLength int
	MaxStringLength   int
	MaxURLLength      int
}

func (l Limits) withDefaults() Limits {
	if l.MaxSelectorLength <= 0 {
		l.MaxSelectorLength = DefaultMaxSelectorLength
	}
	if l.MaxStringLength <= 0 {
		l.MaxStringLength = DefaultMaxStringLength
	}
	if l.MaxURLLength <= 0 {
		l.MaxURLLength = schema.DefaultMaxURLLength
	}
	return l
}

// Validator is safe for concurrent use.
type Validator struct {
	schema      *schema.Registry
	breakpoints *breakpoints.Registry
	limits      Limits
	safety      schema.SafetyPolicy
	log         *zap.Logger
}

// New creates a validator.
func New(props *schema.Registry, bps *breakpoints.Registry, limits Limits, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	limits = limits.withDefaults()
	return &Validator{
		schema:      props,
		breakpoints: bps,
		limits:      limits,
		safety:      schema.SafetyPolicy{MaxURLLength: limits.MaxURLLength},
		log:         log.Named("validator"),
	}
}

// Safety returns the value safety policy derived from the limits.
func (v *Validator) Safety() schema.SafetyPolicy {
	return v.safety
}

// Result is the cleaned rule map plus human readable notes about every
// breakpoint or property that was dropped.
type Result struct {
	Rules   rules.BreakpointRules
	Dropped []string
}

// rgb() channels and alpha in both the comma and the space separated syntax
const (
	rgbChannel = `\d{1,3}(?:\.\d+)?%?`
	rgbAlpha   = `(?:\d+(?:\.\d*)?|\.\d+)%?`
	rgbPattern = `^rgba?\(\s*(?:` +
		rgbChannel + `\s*,\s*` + rgbChannel + `\s*,\s*` + rgbChannel + `(?:\s*,\s*` + rgbAlpha + `)?|` +
		rgbChannel + `\s+` + rgbChannel + `\s+` + rgbChannel + `(?:\s*/\s*` + rgbAlpha + `)?` +
		`)\s*\)$`
)

var (
	hexColor  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbColor  = regexp.MustCompile(rgbPattern)
	colorWord = []string{"transparent", "inherit", "initial", "unset"}
)

// Rules validates a raw per-breakpoint property map.
func (v *Validator) Rules(raw map[string]any) (Result, error) {
	res := Result{Rules: make(rules.BreakpointRules)}
	drop := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		res.Dropped = append(res.Dropped, msg)
		v.log.Debug("Dropping rule entry", zap.String("reason", msg))
	}

	// deterministic notes
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, bp := range names {
		if !v.breakpoints.Has(bp) {
			drop("breakpoint %q is not registered", bp)
			continue
		}
		rawProps, ok := raw[bp].(map[string]any)
		if !ok {
			drop("breakpoint %q: properties must be a map", bp)
			continue
		}
		keys := make([]string, 0, len(rawProps))
		for key := range rawProps {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		props := make(rules.Properties, len(keys))
		for _, key := range keys {
			def, ok := v.schema.Definition(key)
			if !ok {
				drop("%s.%s: unsupported property", bp, key)
				continue
			}
			val, err := v.property(def, rawProps[key])
			if err != nil {
				drop("%s.%s: %v", bp, key, err)
				continue
			}
			props[key] = val
		}
		if len(props) == 0 {
			drop("breakpoint %q: no valid properties", bp)
			continue
		}
		res.Rules[bp] = props
	}

	if len(res.Rules) == 0 {
		return res, rules.Invalid("rules", "no valid properties")
	}
	return res, nil
}

// Payload validates a complete submission and returns the rule set it describes.
func (v *Validator) Payload(p rules.Payload) (*rules.RuleSet, Result, error) {
	sel, err := v.Selector(p.Selector)
	if err != nil {
		return nil, Result{}, err
	}
	scope, err := common.ParseScope(strings.TrimSpace(p.Scope))
	if err != nil {
		return nil, Result{}, rules.Invalid("scope", "must be one of %s", strings.Join(common.ScopeNames(), ", "))
	}
	if scope == common.ScopePage && p.PageID <= 0 {
		return nil, Result{}, rules.Invalid("page_id", "page scope requires a page id")
	}
	res, err := v.Rules(p.Rules)
	if err != nil {
		return nil, res, err
	}
	return &rules.RuleSet{
		Selector:     sel,
		Scope:        scope,
		PageID:       scope.PageID(p.PageID),
		ElementID:    sanitizeText(p.ElementID),
		ElementClass: sanitizeText(p.ElementClass),
		Rules:        res.Rules,
		Priority:     p.Priority,
		Active:       true,
	}, res, nil
}

func (v *Validator) property(def schema.Definition, raw any) (rules.Value, error) {
	switch def.Type {
	case common.PropertyTypeDimension:
		return v.dimension(def, raw)
	case common.PropertyTypeSelect:
		s, ok := scalarString(raw)
		if !ok || !def.AllowsValue(s) {
			return rules.Value{}, fmt.Errorf("value %v is not allowed", raw)
		}
		return rules.Text(s), nil
	case common.PropertyTypeColor:
		s, ok := raw.(string)
		if !ok || !IsColor(s) {
			return rules.Value{}, fmt.Errorf("value %v is not a color", raw)
		}
		return rules.Text(strings.TrimSpace(s)), nil
	case common.PropertyTypeRange:
		n, ok := units.Number(raw)
		if !ok {
			return rules.Value{}, fmt.Errorf("value %v is not numeric", raw)
		}
		if !def.InRange(n) {
			return rules.Value{}, fmt.Errorf("value %g outside [%g, %g]", n, def.Min, def.Max)
		}
		return rules.Number(n), nil
	case common.PropertyTypeString:
		s, ok := raw.(string)
		if !ok {
			return rules.Value{}, fmt.Errorf("value %v is not text", raw)
		}
		s = sanitizeText(s)
		if s == "" {
			return rules.Value{}, errors.New("value is empty")
		}
		if len(s) > v.limits.MaxStringLength {
			return rules.Value{}, fmt.Errorf("value longer than %d characters", v.limits.MaxStringLength)
		}
		if !v.safety.IsSafe(s) {
			return rules.Value{}, errors.New("value is unsafe")
		}
		return rules.Text(s), nil
	default:
		return rules.Value{}, fmt.Errorf("unsupported property type %q", def.Type)
	}
}

// dimension accepts {"value": 16, "unit": "px"}, CSS text ("16px", "auto")
// or a bare number (fallback unit).
func (v *Validator) dimension(def schema.Definition, raw any) (rules.Value, error) {
	var (
		d       units.Dimension
		unitRaw string
	)
	switch r := raw.(type) {
	case map[string]any:
		unitRaw, _ = r["unit"].(string)
		u, _ := units.ParseUnit(unitRaw)
		if u == units.Auto && def.AllowsUnit(units.Auto) {
			return rules.Dim(0, units.Auto), nil
		}
		n, ok := units.Number(r["value"])
		if !ok {
			return rules.Value{}, fmt.Errorf("value %v is not numeric", r["value"])
		}
		d = units.Dimension{Value: n, Unit: u}
	case string:
		parsed, ok := units.ParseDimension(r)
		if !ok {
			return rules.Value{}, fmt.Errorf("value %q is not a dimension", r)
		}
		if parsed.IsAuto() && def.AllowsUnit(units.Auto) {
			return rules.Dim(0, units.Auto), nil
		}
		if parsed.IsAuto() {
			return rules.Value{}, errors.New("auto is not allowed")
		}
		d = parsed
	default:
		n, ok := units.Number(raw)
		if !ok {
			return rules.Value{}, fmt.Errorf("value %v is not numeric", raw)
		}
		d = units.Dimension{Value: n, Unit: def.DefaultUnit()}
	}

	if !def.AllowsUnit(d.Unit) || d.Unit == units.Auto {
		d.Unit = def.DefaultUnit()
		if d.Unit == units.Auto {
			return rules.Dim(0, units.Auto), nil
		}
	}
	if !def.InUnitRange(d.Value, d.Unit) {
		lo, hi := def.Range(d.Unit)
		return rules.Value{}, fmt.Errorf("value %g%s outside [%g, %g]", d.Value, d.Unit, lo, hi)
	}
	return rules.FromDimension(d), nil
}

// IsColor reports whether s is a hex, rgb()/rgba() color or a global keyword.
func IsColor(s string) bool {
	s = strings.TrimSpace(s)
	if hexColor.MatchString(s) || rgbColor.MatchString(strings.ToLower(s)) {
		return true
	}
	return slices.Contains(colorWord, strings.ToLower(s))
}

// scalarString accepts strings and numbers (font_weight: 700).
func scalarString(raw any) (string, bool) {
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s), true
	}
	if n, ok := units.Number(raw); ok {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

var textStripper = strings.NewReplacer("<", "", ">", "", "\"", "", "'", "", ";", "", "{", "", "}", "", "\\", "", "`", "")

// sanitizeText strips characters that could escape a declaration value.
func sanitizeText(s string) string {
	s = textStripper.Replace(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Merge combines stored rules with validated incoming ones. Breakpoints
// present in incoming replace the stored ones, other stored breakpoints are
// kept unless replace is set.
func Merge(existing, incoming rules.BreakpointRules, replace bool) rules.BreakpointRules {
	if replace || existing == nil {
		return incoming.Clone()
	}
	out := existing.Clone()
	for bp, props := range incoming.Clone() {
		out[bp] = props
	}
	return out
}
