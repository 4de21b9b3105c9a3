package validate

import (
	"regexp"
	"strings"

	"rstyle/rules"
)

// DefaultMaxSelectorLength bounds accepted selectors.
const DefaultMaxSelectorLength = 255

// Selectors that would restyle the whole document or non visual elements.
var blacklist = map[string]struct{}{
	"html": {}, "body": {}, "*": {}, "script": {}, "head": {},
	"style": {}, "meta": {}, "link": {}, "title": {}, ":root": {},
}

// characters that could close the selector or open a new block/at-rule
const disallowed = "<{};@\\`"

// Selector grammar we accept: simple, compound, attribute, pseudo and
// combinator selectors, selector lists.
var selectorPattern = regexp.MustCompile(`^[A-Za-z0-9_\-#.:\[\]=~^$|*+>,()"'\s%]+$`)

// Selector checks that sel is safe to render as a CSS selector. The
// returned string is the trimmed selector.
func (v *Validator) Selector(sel string) (string, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return "", rules.Invalid("selector", "must not be empty")
	}
	if len(sel) > v.limits.MaxSelectorLength {
		return "", rules.Invalid("selector", "longer than %d characters", v.limits.MaxSelectorLength)
	}
	if strings.ContainsAny(sel, disallowed) || strings.Contains(sel, "/*") {
		return "", rules.Invalid("selector", "contains disallowed characters")
	}
	if !selectorPattern.MatchString(sel) {
		return "", rules.Invalid("selector", "contains unsupported characters")
	}
	if _, bad := blacklist[strings.ToLower(sel)]; bad {
		return "", rules.Invalid("selector", "%q may not be styled", sel)
	}
	for part := range strings.SplitSeq(sel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return "", rules.Invalid("selector", "empty entry in selector list")
		}
		if _, bad := blacklist[strings.ToLower(part)]; bad {
			return "", rules.Invalid("selector", "%q may not be styled", part)
		}
	}
	if !v.safety.IsSafe(sel) {
		return "", rules.Invalid("selector", "contains unsafe content")
	}
	return sel, nil
}
