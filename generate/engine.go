// Package generate turns stored rule sets into stylesheet text.
//
// Output is deterministic: rule sets are emitted in ascending priority, the
// base breakpoint block of a rule set precedes its media blocks and
// declarations follow the canonical order of the property schema. Every
// declaration is marked !important so generated rules win over the host
// theme regardless of its specificity or load order.
package generate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"rstyle/breakpoints"
	"rstyle/common"
	"rstyle/css"
	"rstyle/rules"
	"rstyle/schema"
)

// DefaultProtectedSelectors are parts of the host page control surface and
// of the editor itself which user rules may never restyle.
var DefaultProtectedSelectors = []string{
	"#wpadminbar",
	".admin-bar",
	"#rstyle-editor",
	".rstyle-modal",
	".rstyle-toggle",
	".rstyle-picker",
}

// DefaultHelperPrefix prefixes structural helper class names.
const DefaultHelperPrefix = "rs"

// CSSPostProcessor transforms the complete generated stylesheet (minifiers,
// autoprefixers). Processors run in registration order.
type CSSPostProcessor interface {
	Process(css string) string
}

// PostProcessorFunc adapts a function to CSSPostProcessor.
type PostProcessorFunc func(string) string

func (f PostProcessorFunc) Process(css string) string { return f(css) }

// Option configures an Engine.
type Option func(*Engine)

// WithProtectedSelectors replaces the default protected selector list.
func WithProtectedSelectors(selectors ...string) Option {
	return func(e *Engine) {
		e.protected = e.protected[:0]
		for _, s := range selectors {
			if s = strings.TrimSpace(s); s != "" {
				e.protected = append(e.protected, s)
			}
		}
	}
}

// WithPostProcessors appends post processors.
func WithPostProcessors(pp ...CSSPostProcessor) Option {
	return func(e *Engine) {
		e.post = append(e.post, pp...)
	}
}

// WithHelperPrefix changes prefix of helper class names.
func WithHelperPrefix(prefix string) Option {
	return func(e *Engine) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			e.helperPrefix = prefix
		}
	}
}

// WithVerification makes the engine parse its own output and log when it
// could not be read back.
func WithVerification(on bool) Option {
	return func(e *Engine) {
		e.verify = on
	}
}

// WithSafety sets the policy stored values are rechecked with before they
// are rendered. It should match the policy submissions were validated with.
func WithSafety(policy schema.SafetyPolicy) Option {
	return func(e *Engine) {
		e.safety = policy
	}
}

// Engine generates CSS. It holds no per-call state and is safe for
// concurrent use as long as the registries are.
type Engine struct {
	schema       *schema.Registry
	breakpoints  *breakpoints.Registry
	protected    []string
	post         []CSSPostProcessor
	helperPrefix string
	verify       bool
	safety       schema.SafetyPolicy
	log          *zap.Logger
}

// New creates an engine.
func New(props *schema.Registry, bps *breakpoints.Registry, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		schema:       props,
		breakpoints:  bps,
		protected:    slices.Clone(DefaultProtectedSelectors),
		helperPrefix: DefaultHelperPrefix,
		safety:       schema.DefaultSafety,
		log:          log.Named("css-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate renders rule sets into a stylesheet. No rule sets produce an
// empty string, otherwise helper classes are appended after the rules.
func (e *Engine) Generate(sets []rules.RuleSet) string {
	if len(sets) == 0 {
		return ""
	}

	ordered := slices.Clone(sets)
	slices.SortStableFunc(ordered, compareRuleSets)

	defs := e.emitOrder()

	var sb strings.Builder
	for _, rs := range ordered {
		if !rs.Active {
			continue
		}
		if protected, ok := e.IsProtected(rs.Selector); ok {
			e.log.Debug("Skipping rule set conflicting with protected selector",
				zap.Int64("id", rs.ID), zap.String("selector", rs.Selector), zap.String("protected", protected))
			continue
		}
		e.writeRuleSet(&sb, rs, defs)
	}
	e.writeHelpers(&sb, defs)

	out := sb.String()
	for _, p := range e.post {
		out = p.Process(out)
	}
	if e.verify {
		e.verifyOutput(out)
	}
	return out
}

// emitOrder returns breakpoints with the base one first, others in
// registration order.
func (e *Engine) emitOrder() []breakpoints.Definition {
	all := e.breakpoints.All()
	slices.SortStableFunc(all, func(a, b breakpoints.Definition) int {
		switch {
		case a.IsBase() == b.IsBase():
			return 0
		case a.IsBase():
			return -1
		default:
			return 1
		}
	})
	return all
}

func (e *Engine) writeRuleSet(sb *strings.Builder, rs rules.RuleSet, defs []breakpoints.Definition) {
	for _, bp := range defs {
		props, ok := rs.Rules[bp.Name]
		if !ok || len(props) == 0 {
			continue
		}
		decls := e.DeclarationText(props)
		if decls == "" {
			continue
		}
		if bp.IsBase() {
			fmt.Fprintf(sb, "%s { %s }\n", rs.Selector, decls)
		} else {
			fmt.Fprintf(sb, "@media %s { %s { %s } }\n", bp.MediaQuery, rs.Selector, decls)
		}
	}
	for name := range rs.Rules {
		if !e.breakpoints.Has(name) {
			e.log.Debug("Ignoring rules for unknown breakpoint", zap.Int64("id", rs.ID), zap.String("breakpoint", name))
		}
	}
}

// Declarations renders one breakpoint property map in canonical order.
// Properties not in the schema, unsafe values and display gated properties
// whose display requirement is not met are left out.
func (e *Engine) Declarations(props rules.Properties) []schema.Declaration {
	display := ""
	if v, ok := props["display"]; ok {
		display = v.CSS()
	}

	var out []schema.Declaration
	for _, def := range e.schema.Definitions() {
		v, ok := props[def.Key]
		if !ok {
			continue
		}
		if def.RequiresDisplay != "" && display != def.RequiresDisplay {
			continue
		}
		value := v.CSS()
		if value == "" {
			continue
		}
		if !e.safety.IsSafe(value) {
			e.log.Warn("Skipping unsafe stored value", zap.String("property", def.Key), zap.String("value", value))
			continue
		}
		out = append(out, def.Declarations(value)...)
	}
	return out
}

// DeclarationText joins rendered declarations with "; ", each marked !important.
func (e *Engine) DeclarationText(props rules.Properties) string {
	decls := e.Declarations(props)
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Property+": "+d.Value+" !important")
	}
	return strings.Join(parts, "; ")
}

// IsProtected reports whether selector contains one of the protected
// selectors and returns the matching one.
func (e *Engine) IsProtected(selector string) (string, bool) {
	lower := strings.ToLower(selector)
	for _, p := range e.protected {
		if strings.Contains(lower, strings.ToLower(p)) {
			return p, true
		}
	}
	return "", false
}

func (e *Engine) verifyOutput(out string) {
	sheet, err := css.NewParser(e.log).Parse([]byte(out))
	if err != nil {
		e.log.Error("Generated stylesheet could not be parsed", zap.Error(err))
		return
	}
	e.log.Debug("Generated stylesheet verified", zap.Int("blocks", len(sheet.Blocks)), zap.Int("bytes", len(out)))
}

// compareRuleSets orders by priority, then site before page scope so page
// rules win ties, then id and natural selector order.
func compareRuleSets(a, b rules.RuleSet) int {
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(scopeRank(a.Scope), scopeRank(b.Scope)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	switch {
	case natural.Less(a.Selector, b.Selector):
		return -1
	case natural.Less(b.Selector, a.Selector):
		return 1
	}
	return 0
}

func scopeRank(s common.Scope) int {
	if s == common.ScopeSite {
		return 0
	}
	return 1
}
