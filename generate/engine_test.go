package generate

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"rstyle/breakpoints"
	"rstyle/common"
	"rstyle/css"
	"rstyle/rules"
	"rstyle/schema"
	"rstyle/units"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(schema.MustNew(), breakpoints.NewDefault(), zaptest.NewLogger(t), opts...)
}

func ruleSet(id int64, selector string, priority int, br rules.BreakpointRules) rules.RuleSet {
	return rules.RuleSet{
		ID:       id,
		Selector: selector,
		Scope:    common.ScopeSite,
		Rules:    br,
		Priority: priority,
		Active:   true,
	}
}

// rulesPart strips the helper classes.
func rulesPart(t *testing.T, e *Engine, out string) string {
	t.Helper()
	var sb strings.Builder
	e.writeHelpers(&sb, e.emitOrder())
	got, ok := strings.CutSuffix(out, sb.String())
	if !ok {
		t.Fatalf("output does not end with helper classes:\n%s", out)
	}
	return got
}

func TestGenerate_BaseAndMedia(t *testing.T) {
	e := newEngine(t)
	out := e.Generate([]rules.RuleSet{ruleSet(1, ".hero", 0, rules.BreakpointRules{
		"mobile":  {"font_size": rules.Dim(20, units.Px)},
		"desktop": {"text_color": rules.Text("#fff"), "font_size": rules.Dim(32, units.Px)},
	})})

	want := ".hero { font-size: 32px !important; color: #fff !important }\n" +
		"@media (max-width: 767px) { .hero { font-size: 20px !important } }\n"
	if got := rulesPart(t, e, out); got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerate_Empty(t *testing.T) {
	e := newEngine(t)
	if got := e.Generate(nil); got != "" {
		t.Errorf("Generate(nil) = %q, want empty", got)
	}
	// inactive only still gets helpers
	out := e.Generate([]rules.RuleSet{{Selector: ".x", Rules: rules.BreakpointRules{"desktop": {"display": rules.Text("none")}}}})
	if got := rulesPart(t, e, out); got != "" {
		t.Errorf("inactive rule set rendered: %q", got)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	e := newEngine(t)
	sets := []rules.RuleSet{
		ruleSet(2, ".b", 5, rules.BreakpointRules{"desktop": {"opacity": rules.Number(1), "display": rules.Text("block")}}),
		ruleSet(1, ".a", 5, rules.BreakpointRules{"tablet": {"width": rules.Dim(50, units.Percent)}, "mobile": {"width": rules.Dim(100, units.Percent)}}),
	}
	first := e.Generate(sets)
	for range 5 {
		if got := e.Generate(sets); got != first {
			t.Fatalf("Generate() is not deterministic:\n%s\n---\n%s", got, first)
		}
	}
}

func TestGenerate_CanonicalOrder(t *testing.T) {
	e := newEngine(t)
	out := e.Generate([]rules.RuleSet{ruleSet(1, ".card", 0, rules.BreakpointRules{"desktop": {
		"transition":       rules.Text("all 0.3s ease"),
		"padding_left":     rules.Dim(4, units.Px),
		"margin_top":       rules.Dim(1, units.Em),
		"background_color": rules.Text("#000"),
		"position":         rules.Text("relative"),
		"opacity":          rules.Number(1),
		"width":            rules.Dim(0, units.Auto),
	}})})

	want := ".card { position: relative !important; background-color: #000 !important; width: auto !important; " +
		"margin-top: 1em !important; padding-left: 4px !important; opacity: 1 !important; transition: all 0.3s ease !important }\n"
	if got := rulesPart(t, e, out); got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerate_FlexGating(t *testing.T) {
	e := newEngine(t)
	out := e.Generate([]rules.RuleSet{ruleSet(1, ".row", 0, rules.BreakpointRules{
		"desktop": {"display": rules.Text("flex"), "justify_content": rules.Text("center"), "align_items": rules.Text("stretch")},
		"mobile":  {"display": rules.Text("block"), "justify_content": rules.Text("center")},
		"tablet":  {"flex_direction": rules.Text("column")},
	})})

	want := ".row { display: flex !important; justify-content: center !important; align-items: stretch !important }\n" +
		"@media (max-width: 767px) { .row { display: block !important } }\n"
	if got := rulesPart(t, e, out); got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerate_ElementAlign(t *testing.T) {
	e := newEngine(t)
	got := e.DeclarationText(rules.Properties{"element_align": rules.Text("center")})
	want := "margin-left: auto !important; margin-right: auto !important"
	if got != want {
		t.Errorf("DeclarationText() = %q, want %q", got, want)
	}
}

func TestGenerate_ProtectedSelectors(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		selector string
		skipped  bool
	}{
		{"admin bar", nil, "#wpadminbar .ab-item", true},
		{"admin bar class", nil, "body.ADMIN-BAR .x", true},
		{"own modal", nil, ".rstyle-modal", true},
		{"regular", nil, ".hero", false},
		{"custom list", []Option{WithProtectedSelectors("#site-header")}, "#site-header nav", true},
		{"custom list replaces defaults", []Option{WithProtectedSelectors("#site-header")}, "#wpadminbar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.opts...)
			out := e.Generate([]rules.RuleSet{ruleSet(1, tt.selector, 0, rules.BreakpointRules{"desktop": {"display": rules.Text("none")}})})
			rendered := rulesPart(t, e, out) != ""
			if rendered == tt.skipped {
				t.Errorf("selector %q rendered = %v, want skipped = %v", tt.selector, rendered, tt.skipped)
			}
			if _, ok := e.IsProtected(tt.selector); ok != tt.skipped {
				t.Errorf("IsProtected(%q) = %v", tt.selector, ok)
			}
		})
	}
}

func TestGenerate_PriorityOrder(t *testing.T) {
	e := newEngine(t)
	display := rules.BreakpointRules{"desktop": {"display": rules.Text("block")}}
	page := ruleSet(3, ".page", 10, display)
	page.Scope, page.PageID = common.ScopePage, 7

	out := e.Generate([]rules.RuleSet{
		ruleSet(1, ".late", 10, display),
		page,
		ruleSet(2, ".early", 1, display),
		ruleSet(9, ".item10", 5, display),
		ruleSet(9, ".item2", 5, display),
	})

	sheet, err := css.Parse([]byte(out))
	if err != nil {
		t.Fatalf("css.Parse() error = %v", err)
	}
	var got []string
	for _, b := range sheet.Blocks[:5] {
		got = append(got, b.Selector)
	}
	want := []string{".early", ".item2", ".item10", ".late", ".page"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestGenerate_UnknownBreakpointAndUnsafeValue(t *testing.T) {
	e := newEngine(t)
	out := e.Generate([]rules.RuleSet{ruleSet(1, ".x", 0, rules.BreakpointRules{
		"watch":   {"display": rules.Text("none")},
		"desktop": {"box_shadow": rules.Text("url(javascript:alert(1))"), "display": rules.Text("grid")},
	})})
	want := ".x { display: grid !important }\n"
	if got := rulesPart(t, e, out); got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerate_SafetyPolicy(t *testing.T) {
	long := "url(https://example.com/" + strings.Repeat("a", schema.DefaultMaxURLLength) + ".png)"
	sets := []rules.RuleSet{ruleSet(1, ".x", 0, rules.BreakpointRules{
		"desktop": {"transform": rules.Text(long), "display": rules.Text("grid")},
	})}

	tests := []struct {
		name string
		opts []Option
		kept bool
	}{
		{"default limit", nil, false},
		{"configured limit", []Option{WithSafety(schema.SafetyPolicy{MaxURLLength: 2000})}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.opts...)
			got := strings.Contains(rulesPart(t, e, e.Generate(sets)), "transform: "+long)
			if got != tt.kept {
				t.Errorf("long url kept = %v, want %v", got, tt.kept)
			}
		})
	}
}

func TestGenerate_OutputParses(t *testing.T) {
	bps := breakpoints.NewDefault()
	if err := bps.Register(breakpoints.Definition{Name: "wide", MediaQuery: "(min-width: 1600px)", Width: 2560, Height: 1440}); err != nil {
		t.Fatal(err)
	}
	e := New(schema.MustNew(), bps, zaptest.NewLogger(t), WithVerification(true), WithHelperPrefix("ux"))
	out := e.Generate([]rules.RuleSet{ruleSet(1, ".hero, .banner > h2", 0, rules.BreakpointRules{
		"desktop": {"font_family": rules.Text("Open Sans, Arial"), "box_shadow": rules.Text("0 2px 4px rgba(0,0,0,0.3)")},
		"tablet":  {"margin_left": rules.Dim(0, units.Auto)},
		"wide":    {"max_width": rules.Dim(1, units.Px), "font_size": rules.Dim(1.25, units.Rem)},
	})})

	sheet, err := css.Parse([]byte(out))
	if err != nil {
		t.Fatalf("css.Parse() error = %v", err)
	}
	base, ok := sheet.Find("", ".hero, .banner > h2")
	if !ok {
		t.Fatalf("base block not found in\n%s", out)
	}
	if d, _ := base.Value("font-family"); d.Value != "Open Sans,Arial" || !d.Important {
		t.Errorf("font-family = %+v", d)
	}
	if i := sheet.Index(".hero, .banner > h2", "1600px"); i != 2 {
		t.Errorf("custom breakpoint block at %d, want 2", i)
	}
	for _, b := range sheet.Blocks {
		for _, d := range b.Declarations {
			if !d.Important {
				t.Errorf("%s %s: declaration %s is not !important", b.Media, b.Selector, d.Property)
			}
		}
	}
	if sheet.Index(".ux-hide-mobile", "767px") < 0 || sheet.Index(".ux-hidden", "") < 0 {
		t.Errorf("helper classes missing in\n%s", out)
	}
	if sheet.Index(".ux-hide-wide", "1600px") < 0 {
		t.Error("helper classes must cover custom breakpoints")
	}
}

func TestGenerate_PostProcessors(t *testing.T) {
	var calls []string
	first := PostProcessorFunc(func(s string) string {
		calls = append(calls, "first")
		return "/* generated */\n" + s
	})
	second := PostProcessorFunc(func(s string) string {
		calls = append(calls, "second")
		return strings.ReplaceAll(s, " !important", "!important")
	})

	e := newEngine(t, WithPostProcessors(first, second))
	out := e.Generate([]rules.RuleSet{ruleSet(1, ".a", 0, rules.BreakpointRules{"desktop": {"display": rules.Text("none")}})})

	if strings.Join(calls, ",") != "first,second" {
		t.Errorf("post processors called as %v", calls)
	}
	if !strings.HasPrefix(out, "/* generated */\n.a { display: none!important }\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
