package scale

import (
	"math"
	"testing"

	"go.uber.org/zap/zaptest"

	"rstyle/breakpoints"
	"rstyle/common"
	"rstyle/rules"
	"rstyle/schema"
	"rstyle/units"
)

func TestScale(t *testing.T) {
	c := New(breakpoints.NewDefault(), zaptest.NewLogger(t))

	tests := []struct {
		name     string
		value    float64
		src, dst string
		class    common.ProportionType
		want     float64
		ok       bool
	}{
		{"font", 16, "desktop", "mobile", common.ProportionTypeFont, units.Round(16*math.Sqrt((375.0*667)/(1920.0*1080)), 2), true},
		{"horizontal", 100, "desktop", "mobile", common.ProportionTypeHorizontal, 19.53, true},
		{"vertical", 100, "desktop", "mobile", common.ProportionTypeVertical, 61.76, true},
		{"general is horizontal", 100, "desktop", "tablet", common.ProportionTypeGeneral, 40, true},
		{"upscale", 375, "mobile", "desktop", common.ProportionTypeHorizontal, 1920, true},
		{"same breakpoint", 12.5, "tablet", "tablet", common.ProportionTypeFont, 12.5, true},
		{"unknown source", 16, "watch", "mobile", common.ProportionTypeFont, 0, false},
		{"unknown target", 16, "desktop", "tv", common.ProportionTypeFont, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Scale(tt.value, tt.src, tt.dst, tt.class)
			if ok != tt.ok {
				t.Fatalf("Scale() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Scale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScale_FontExample(t *testing.T) {
	c := New(breakpoints.NewDefault(), nil)
	got, ok := c.Scale(16, "desktop", "mobile", common.ProportionTypeFont)
	if !ok || got != 5.56 {
		t.Errorf("Scale(16, desktop, mobile, font) = %v, %v; want 5.56", got, ok)
	}
}

func TestFill(t *testing.T) {
	c := New(breakpoints.NewDefault(), zaptest.NewLogger(t))
	defs := schema.MustNew()

	src := rules.Properties{
		"font_size":   rules.Dim(32, units.Px),
		"width":       rules.Dim(50, units.Percent),
		"margin_top":  rules.Dim(20, units.Px),
		"display":     rules.Text("block"),
		"opacity":     rules.Number(0.5),
		"height":      rules.Dim(0, units.Auto),
		"line_height": rules.Dim(1.2, units.Unitless),
	}

	out, ok := c.Fill(src, "desktop", defs)
	if !ok {
		t.Fatal("Fill() failed")
	}
	if len(out) != 3 {
		t.Fatalf("expected all breakpoints, got %v", out)
	}
	if out["desktop"]["font_size"] != src["font_size"] {
		t.Error("source breakpoint must be copied verbatim")
	}

	mobile := out["mobile"]
	wantFont, _ := c.Scale(32, "desktop", "mobile", common.ProportionTypeFont)
	if mobile["font_size"] != rules.Dim(wantFont, units.Px) {
		t.Errorf("mobile font_size = %+v, want %v", mobile["font_size"], wantFont)
	}
	wantMargin, _ := c.Scale(20, "desktop", "mobile", common.ProportionTypeVertical)
	if mobile["margin_top"] != rules.Dim(wantMargin, units.Px) {
		t.Errorf("mobile margin_top = %+v, want %v", mobile["margin_top"], wantMargin)
	}
	for _, key := range []string{"width", "display", "opacity", "height", "line_height"} {
		if mobile[key] != src[key] {
			t.Errorf("mobile %s = %+v, want copy %+v", key, mobile[key], src[key])
		}
	}
}

func TestFill_ClampsToRange(t *testing.T) {
	c := New(breakpoints.NewDefault(), nil)
	out, ok := c.Fill(rules.Properties{"font_size": rules.Dim(2, units.Px)}, "desktop", schema.MustNew())
	if !ok {
		t.Fatal("Fill() failed")
	}
	if got := out["mobile"]["font_size"]; got != rules.Dim(1, units.Px) {
		t.Errorf("font_size = %+v, want clamped to 1px", got)
	}

	tests := []struct {
		in, want rules.Value
	}{
		{rules.Dim(0.875, units.Rem), rules.Dim(0.3, units.Rem)},
		{rules.Dim(0.25, units.Rem), rules.Dim(0.1, units.Rem)},
		{rules.Dim(0.5, units.Em), rules.Dim(0.17, units.Em)},
	}
	for _, tt := range tests {
		out, _ := c.Fill(rules.Properties{"font_size": tt.in}, "desktop", schema.MustNew())
		if got := out["mobile"]["font_size"]; got != tt.want {
			t.Errorf("font_size %+v on mobile = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if _, ok := c.Fill(rules.Properties{}, "watch", schema.MustNew()); ok {
		t.Error("Fill() must fail for unknown breakpoint")
	}
}
