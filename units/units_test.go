package units

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFormatDimension(t *testing.T) {
	tests := []struct {
		name  string
		value any
		unit  Unit
		want  string
	}{
		{"integer px", 16, Px, "16px"},
		{"float em", 1.5, Em, "1.5em"},
		{"numeric string", "24", Rem, "24rem"},
		{"json number", json.Number("12.25"), Pt, "12.25pt"},
		{"percent", 50.0, Percent, "50%"},
		{"unitless", 1.4, Unitless, "1.4"},
		{"auto ignores value", 10, Auto, "auto"},
		{"auto without value", nil, Auto, ""},
		{"auto empty string", "", Auto, ""},
		{"nil", nil, Px, ""},
		{"empty string", "", Px, ""},
		{"non numeric", "big", Px, ""},
		{"negative zero", math.Copysign(0, -1), Px, "0px"},
		{"negative", -20, Px, "-20px"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDimension(tt.value, tt.unit); got != tt.want {
				t.Errorf("FormatDimension(%v, %q) = %q, want %q", tt.value, tt.unit, got, tt.want)
			}
		})
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want Dimension
		ok   bool
	}{
		{"16px", Dimension{16, Px}, true},
		{"1.5EM", Dimension{1.5, Em}, true},
		{" 50% ", Dimension{50, Percent}, true},
		{"-10px", Dimension{-10, Px}, true},
		{"12", Dimension{12, Unitless}, true},
		{"auto", Dimension{Unit: Auto}, true},
		{"10auto", Dimension{}, false},
		{"10furlongs", Dimension{}, false},
		{"px", Dimension{}, false},
		{"", Dimension{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDimension(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseDimension(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDimension(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	vp := Viewport{Width: 1920, Height: 1080}

	tests := []struct {
		name     string
		value    float64
		from, to Unit
		axis     Axis
		want     float64
		ok       bool
	}{
		{"identity", 13, Px, Px, Horizontal, 13, true},
		{"px to em", 32, Px, Em, Horizontal, 2, true},
		{"rem to px", 1.5, Rem, Px, Horizontal, 24, true},
		{"pt to px", 12, Pt, Px, Horizontal, 16, true},
		{"vw to px", 10, Vw, Px, Horizontal, 192, true},
		{"vh to px", 10, Vh, Px, Horizontal, 108, true},
		{"percent horizontal", 50, Percent, Px, Horizontal, 960, true},
		{"percent vertical", 50, Percent, Px, Vertical, 540, true},
		{"px to vw", 96, Px, Vw, Horizontal, 5, true},
		{"auto is not convertible", 10, Auto, Px, Horizontal, 10, false},
		{"unitless is not convertible", 1.2, Unitless, Em, Horizontal, 1.2, false},
		{"unknown unit", 7, Unit("furlong"), Px, Horizontal, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Convert(tt.value, tt.from, tt.to, vp, tt.axis)
			if ok != tt.ok {
				t.Fatalf("Convert() ok = %v, want %v", ok, tt.ok)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Convert() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertWithoutViewport(t *testing.T) {
	if got, ok := Convert(50, Percent, Px, Viewport{}, Horizontal); ok || got != 50 {
		t.Errorf("Convert() without viewport = %v, %v; want 50, false", got, ok)
	}
	if got := ConvertUnit(3, Vw, Px, Viewport{}, Horizontal); got != 3 {
		t.Errorf("ConvertUnit() fallback = %v, want 3", got)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	vp := Viewport{Width: 375, Height: 667}
	triangle := []Unit{Px, Em, Rem}

	for _, v := range []float64{0, 1, 13, 16.5, 99.99, 1234} {
		for _, a := range triangle {
			for _, b := range triangle {
				there := ConvertUnit(v, a, b, vp, Horizontal)
				back := ConvertUnit(there, b, a, vp, Horizontal)
				if math.Abs(back-v) > 1e-9 {
					t.Errorf("round trip %v %s->%s->%s = %v", v, a, b, a, back)
				}
			}
		}
	}
}

func TestRound(t *testing.T) {
	if got := Round(3.14159, 2); got != 3.14 {
		t.Errorf("Round() = %v, want 3.14", got)
	}
	if got := Round(2.005, 0); got != 2 {
		t.Errorf("Round() = %v, want 2", got)
	}
}
