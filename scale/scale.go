// Package scale derives equivalent values for other breakpoints from the
// ratio of their reference viewports. It is used to pre-fill editor values
// and is never called during generation.
package scale

import (
	"math"

	"go.uber.org/zap"

	"rstyle/breakpoints"
	"rstyle/common"
	"rstyle/rules"
	"rstyle/schema"
	"rstyle/units"
)

// Calculator scales values between registered breakpoints.
type Calculator struct {
	breakpoints *breakpoints.Registry
	log         *zap.Logger
}

// New creates a calculator.
func New(bps *breakpoints.Registry, log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{breakpoints: bps, log: log.Named("scale")}
}

// Ratio returns the multiplier from src to dst for the proportion class.
// False when either breakpoint is unknown or has no reference size.
func (c *Calculator) Ratio(src, dst string, class common.ProportionType) (float64, bool) {
	from, ok := c.breakpoints.Get(src)
	if !ok {
		return 0, false
	}
	to, ok := c.breakpoints.Get(dst)
	if !ok {
		return 0, false
	}
	if from.Width <= 0 || from.Height <= 0 || to.Width <= 0 || to.Height <= 0 {
		return 0, false
	}

	switch class {
	case common.ProportionTypeVertical:
		return float64(to.Height) / float64(from.Height), true
	case common.ProportionTypeFont:
		// geometric mean of the area ratio
		return math.Sqrt(float64(to.Width*to.Height) / float64(from.Width*from.Height)), true
	default:
		return float64(to.Width) / float64(from.Width), true
	}
}

// Scale converts value from src to dst, rounded to 2 decimal places.
func (c *Calculator) Scale(value float64, src, dst string, class common.ProportionType) (float64, bool) {
	ratio, ok := c.Ratio(src, dst, class)
	if !ok {
		c.log.Debug("Unable to scale", zap.String("from", src), zap.String("to", dst))
		return 0, false
	}
	return units.Round(value*ratio, 2), true
}

// absolute units scale with the viewport, relative ones already adapt
var scalable = map[units.Unit]bool{
	units.Px: true, units.Pt: true, units.Em: true, units.Rem: true,
}

// Fill produces rules for every registered breakpoint from the properties of
// src. Proportional dimensions in absolute units are scaled and clamped to the
// property range, everything else is copied verbatim. False when src is not
// registered.
func (c *Calculator) Fill(props rules.Properties, src string, defs *schema.Registry) (rules.BreakpointRules, bool) {
	if !c.breakpoints.Has(src) {
		return nil, false
	}

	out := make(rules.BreakpointRules)
	for _, bp := range c.breakpoints.All() {
		filled := make(rules.Properties, len(props))
		for key, v := range props {
			filled[key] = v
			if bp.Name == src {
				continue
			}
			def, ok := defs.Definition(key)
			if !ok || !def.Proportional {
				continue
			}
			d, ok := v.Dimension()
			if !ok || !scalable[d.Unit] {
				continue
			}
			scaled, ok := c.Scale(d.Value, src, bp.Name, def.ProportionType)
			if !ok {
				continue
			}
			filled[key] = rules.Dim(def.Clamp(scaled, d.Unit), d.Unit)
		}
		out[bp.Name] = filled
	}
	return out, true
}
