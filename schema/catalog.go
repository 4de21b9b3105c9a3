package schema

import (
	"slices"

	"rstyle/common"
	"rstyle/units"
)

var (
	lengthUnits   = []units.Unit{units.Px, units.Percent, units.Em, units.Rem, units.Vw, units.Auto}
	offsetUnits   = []units.Unit{units.Px, units.Percent, units.Em, units.Rem, units.Vw, units.Vh, units.Auto}
	fontUnits     = []units.Unit{units.Px, units.Em, units.Rem, units.Percent, units.Vw, units.Pt}
	lineUnits     = []units.Unit{units.Unitless, units.Px, units.Em, units.Rem, units.Percent}
	marginUnits   = []units.Unit{units.Px, units.Percent, units.Em, units.Rem, units.Vw, units.Vh, units.Auto}
	paddingUnits  = []units.Unit{units.Px, units.Percent, units.Em, units.Rem, units.Vw, units.Vh}
	borderUnits   = []units.Unit{units.Px, units.Em, units.Rem}
	radiusUnits   = []units.Unit{units.Px, units.Percent, units.Em, units.Rem}
	heightUnits   = []units.Unit{units.Px, units.Percent, units.Em, units.Rem, units.Vh, units.Auto}
	alignments    = []string{"left", "center", "right"}
	flexPositions = []string{"flex-start", "flex-end", "center"}
)

// font sizes in relative units are routinely below 1
var fontRanges = map[units.Unit][2]float64{
	units.Em:      {0.1, 30},
	units.Rem:     {0.1, 30},
	units.Vw:      {0.1, 50},
	units.Percent: {10, 3000},
}

func dimension(key, css string, group common.Group, allowed []units.Unit, lo, hi float64, pt common.ProportionType) Definition {
	return Definition{
		Key: key, CSS: css, Type: common.PropertyTypeDimension,
		AllowedUnits: allowed,
		HasRange:     true, Min: lo, Max: hi,
		Group:        group,
		Proportional: true, ProportionType: pt,
	}
}

func choice(key, css string, group common.Group, values ...string) Definition {
	return Definition{Key: key, CSS: css, Type: common.PropertyTypeSelect, AllowedValues: values, Group: group}
}

func color(key, css string) Definition {
	return Definition{Key: key, CSS: css, Type: common.PropertyTypeColor, Group: common.GroupColor}
}

func text(key, css string, group common.Group) Definition {
	return Definition{Key: key, CSS: css, Type: common.PropertyTypeString, Group: group}
}

// element_align positions a block element inside its container with auto margins.
func renderElementAlign(value string) []Declaration {
	switch value {
	case "left":
		return []Declaration{{"margin-left", "0"}, {"margin-right", "auto"}}
	case "right":
		return []Declaration{{"margin-left", "auto"}, {"margin-right", "0"}}
	default:
		return []Declaration{{"margin-left", "auto"}, {"margin-right", "auto"}}
	}
}

// builtins returns the default catalog in canonical declaration order:
// position, typography, color, layout, flex, dimensions, spacing, border,
// effects, motion.
func builtins() []Definition {
	flex := func(d Definition) Definition {
		d.RequiresDisplay = "flex"
		return d
	}
	elementAlign := choice("element_align", "", common.GroupTypography, alignments...)
	elementAlign.Render = renderElementAlign

	fontSize := dimension("font_size", "font-size", common.GroupTypography, fontUnits, 1, 500, common.ProportionTypeFont)
	fontSize.Ranges = fontRanges

	return []Definition{
		choice("position", "position", common.GroupPosition, "static", "relative", "absolute", "fixed", "sticky"),
		dimension("position_x", "left", common.GroupPosition, offsetUnits, -5000, 5000, common.ProportionTypeHorizontal),
		dimension("position_y", "top", common.GroupPosition, offsetUnits, -5000, 5000, common.ProportionTypeVertical),

		fontSize,
		text("font_family", "font-family", common.GroupTypography),
		choice("font_weight", "font-weight", common.GroupTypography,
			"normal", "bold", "bolder", "lighter", "100", "200", "300", "400", "500", "600", "700", "800", "900"),
		dimension("line_height", "line-height", common.GroupTypography, lineUnits, 0, 500, common.ProportionTypeFont),
		choice("text_align", "text-align", common.GroupTypography, "left", "center", "right", "justify"),
		elementAlign,

		color("text_color", "color"),
		color("background_color", "background-color"),
		color("border_color", "border-color"),

		choice("display", "display", common.GroupLayout,
			"block", "inline", "inline-block", "flex", "inline-flex", "grid", "none"),
		flex(choice("flex_direction", "flex-direction", common.GroupFlex, "row", "row-reverse", "column", "column-reverse")),
		flex(choice("justify_content", "justify-content", common.GroupFlex,
			slices.Concat(flexPositions, []string{"space-between", "space-around", "space-evenly"})...)),
		flex(choice("align_items", "align-items", common.GroupFlex, slices.Concat(flexPositions, []string{"stretch", "baseline"})...)),

		dimension("width", "width", common.GroupDimensions, lengthUnits, 0, 10000, common.ProportionTypeHorizontal),
		dimension("height", "height", common.GroupDimensions, heightUnits, 0, 10000, common.ProportionTypeVertical),

		dimension("margin_top", "margin-top", common.GroupSpacing, marginUnits, -2000, 2000, common.ProportionTypeVertical),
		dimension("margin_right", "margin-right", common.GroupSpacing, marginUnits, -2000, 2000, common.ProportionTypeHorizontal),
		dimension("margin_bottom", "margin-bottom", common.GroupSpacing, marginUnits, -2000, 2000, common.ProportionTypeVertical),
		dimension("margin_left", "margin-left", common.GroupSpacing, marginUnits, -2000, 2000, common.ProportionTypeHorizontal),
		dimension("padding_top", "padding-top", common.GroupSpacing, paddingUnits, 0, 2000, common.ProportionTypeVertical),
		dimension("padding_right", "padding-right", common.GroupSpacing, paddingUnits, 0, 2000, common.ProportionTypeHorizontal),
		dimension("padding_bottom", "padding-bottom", common.GroupSpacing, paddingUnits, 0, 2000, common.ProportionTypeVertical),
		dimension("padding_left", "padding-left", common.GroupSpacing, paddingUnits, 0, 2000, common.ProportionTypeHorizontal),

		dimension("border_width", "border-width", common.GroupBorder, borderUnits, 0, 100, common.ProportionTypeGeneral),
		choice("border_style", "border-style", common.GroupBorder,
			"none", "solid", "dashed", "dotted", "double", "groove", "ridge", "inset", "outset"),
		dimension("border_radius", "border-radius", common.GroupBorder, radiusUnits, 0, 1000, common.ProportionTypeGeneral),

		{
			Key: "opacity", CSS: "opacity", Type: common.PropertyTypeRange,
			HasRange: true, Min: 0, Max: 1, Group: common.GroupEffects,
		},
		text("box_shadow", "box-shadow", common.GroupEffects),

		text("transform", "transform", common.GroupMotion),
		text("transition", "transition", common.GroupMotion),
	}
}
