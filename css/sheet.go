package css

import "strings"

// Declaration is a single "property: value" pair of a ruleset.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Block is one ruleset, Media is empty when the ruleset is not inside an
// @media block.
type Block struct {
	Media        string
	Selector     string
	Declarations []Declaration
}

// Value returns the last declared value of the property.
func (b Block) Value(property string) (Declaration, bool) {
	for i := len(b.Declarations) - 1; i >= 0; i-- {
		if b.Declarations[i].Property == property {
			return b.Declarations[i], true
		}
	}
	return Declaration{}, false
}

// Sheet is a parsed stylesheet in document order.
type Sheet struct {
	Blocks []Block
	// at-rules other than @media, in order of appearance
	Skipped []string
}

// Find returns the first block matching media query and selector. Both are
// compared in compact form, "(max-width: 767px)" finds "(max-width:767px)".
func (s *Sheet) Find(media, selector string) (Block, bool) {
	media, selector = compactMedia(media), compactSelector(selector)
	for _, b := range s.Blocks {
		if compactMedia(b.Media) == media && compactSelector(b.Selector) == selector {
			return b, true
		}
	}
	return Block{}, false
}

// Media returns distinct media queries in order of first appearance, base
// blocks are not included.
func (s *Sheet) Media() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, b := range s.Blocks {
		if b.Media == "" {
			continue
		}
		if _, ok := seen[b.Media]; ok {
			continue
		}
		seen[b.Media] = struct{}{}
		out = append(out, b.Media)
	}
	return out
}

// Index returns position of the first block with the given selector whose
// media query contains the fragment, -1 when there is none. An empty
// fragment matches base blocks only.
func (s *Sheet) Index(selector, media string) int {
	selector, media = compactSelector(selector), compactMedia(media)
	for i, b := range s.Blocks {
		if compactSelector(b.Selector) != selector {
			continue
		}
		if media == "" {
			if b.Media == "" {
				return i
			}
			continue
		}
		if strings.Contains(compactMedia(b.Media), media) {
			return i
		}
	}
	return -1
}

// The parser drops whitespace around combinators and list separators in
// selectors and after colons and parentheses in media queries.
func compactSelector(s string) string { return compact(s, ",>+~", ",>+~") }

func compactMedia(s string) string { return compact(s, ",:(", ",:)") }

// compact collapses whitespace and removes it after any of after and
// before any of before.
func compact(s, after, before string) string {
	s = strings.Join(strings.Fields(s), " ")
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' && (strings.IndexByte(after, s[i-1]) >= 0 || strings.IndexByte(before, s[i+1]) >= 0) {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
