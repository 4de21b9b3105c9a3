package schema

import (
	"regexp"
	"strings"
)

// DefaultMaxURLLength limits url(...) references inside values.
const DefaultMaxURLLength = 500

// Substrings that must never reach a generated <style> block.
var forbidden = []string{
	"javascript:",
	"expression(",
	"vbscript:",
	"data:text/html",
	"<script",
	"</script>",
}

var allowedSchemes = []string{"http:", "https:", "data:image/"}

// url( ... ) with optional quotes, the reference is group 1
var urlPattern = regexp.MustCompile(`(?i)url\s*\(\s*["']?([^"')]*)["']?\s*\)?`)

// SafetyPolicy checks raw values before they are rendered verbatim into CSS.
type SafetyPolicy struct {
	MaxURLLength int
}

// DefaultSafety is the policy used by IsSafeValue.
var DefaultSafety = SafetyPolicy{MaxURLLength: DefaultMaxURLLength}

// IsSafeValue reports whether raw is safe to render using the default policy.
func IsSafeValue(raw string) bool {
	return DefaultSafety.IsSafe(raw)
}

// IsSafe rejects values containing script vectors and url() references with
// schemes other than http, https and inline images.
func (p SafetyPolicy) IsSafe(raw string) bool {
	lower := strings.ToLower(raw)
	// CSS escapes and comments may be used to split forbidden words
	compact := strings.NewReplacer("\\", "", "/*", "", "*/", "", " ", "", "\t", "", "\n", "", "\r", "").Replace(lower)
	for _, f := range forbidden {
		if strings.Contains(lower, f) || strings.Contains(compact, f) {
			return false
		}
	}
	refs := strings.Count(compact, "url(")
	if refs == 0 {
		return true
	}
	matches := urlPattern.FindAllStringSubmatch(compact, -1)
	if len(matches) != refs {
		// url( we could not make sense of
		return false
	}
	limit := p.MaxURLLength
	if limit <= 0 {
		limit = DefaultMaxURLLength
	}
	for _, m := range matches {
		ref := strings.TrimSpace(m[1])
		if len(ref) > limit || !hasAllowedScheme(ref) {
			return false
		}
	}
	return true
}

func hasAllowedScheme(ref string) bool {
	for _, s := range allowedSchemes {
		if strings.HasPrefix(ref, s) {
			return true
		}
	}
	return false
}
