package styles

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"rstyle/rules"
)

type treeWriter struct {
	w *strings.Builder
}

func newTreeWriter() *treeWriter {
	return &treeWriter{w: &strings.Builder{}}
}

func (tw treeWriter) String() string {
	return tw.w.String()
}

func (tw treeWriter) Line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw treeWriter) Value(depth int, label, value string) {
	for range depth {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(quoteIfNeeded(value))
	tw.w.WriteByte('\n')
}

// values containing spaces or quotes are quoted to keep one value per line readable
func quoteIfNeeded(raw string) string {
	if raw == "" || strings.ContainsAny(raw, " \t\"'\n") {
		return strconv.Quote(raw)
	}
	return raw
}

// Tree renders rule sets as indented text: rule set, breakpoints in registry
// order, properties in canonical order as they would be emitted.
func (s *Service) Tree(sets []rules.RuleSet) string {
	tw := newTreeWriter()
	order := s.breakpoints.Names()
	for _, rs := range sets {
		state := "active"
		if !rs.Active {
			state = "inactive"
		}
		where := rs.Scope.String()
		if rs.PageID != 0 {
			where = fmt.Sprintf("%s %d", rs.Scope, rs.PageID)
		}
		tw.Line(0, "#%d %s [%s, priority %d, %s]", rs.ID, rs.Selector, where, rs.Priority, state)
		if rs.ElementID != "" {
			tw.Value(1, "element id", rs.ElementID)
		}
		if rs.ElementClass != "" {
			tw.Value(1, "element class", rs.ElementClass)
		}

		names := make([]string, 0, len(rs.Rules))
		for name := range rs.Rules {
			names = append(names, name)
		}
		slices.SortFunc(names, func(a, b string) int {
			ia, ib := slices.Index(order, a), slices.Index(order, b)
			if ia < 0 {
				ia = len(order)
			}
			if ib < 0 {
				ib = len(order)
			}
			if ia != ib {
				return ia - ib
			}
			return strings.Compare(a, b)
		})

		for _, name := range names {
			mq, ok := s.breakpoints.ResolveMediaQuery(name)
			switch {
			case !ok:
				tw.Line(1, "%s (not registered, skipped)", name)
			case mq == "":
				tw.Line(1, "%s (base)", name)
			default:
				tw.Line(1, "%s %s", name, mq)
			}
			for _, d := range s.engine.Declarations(rs.Rules[name]) {
				tw.Value(2, d.Property, d.Value)
			}
		}
	}
	return tw.String()
}
