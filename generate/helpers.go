package generate

import (
	"fmt"
	"strings"

	"rstyle/breakpoints"
)

// writeHelpers appends the structural helper classes: element alignment,
// text alignment, positioning, visibility and per breakpoint hide/show
// utilities. They do not depend on rule data.
func (e *Engine) writeHelpers(sb *strings.Builder, defs []breakpoints.Definition) {
	p := "." + e.helperPrefix

	fmt.Fprintf(sb, "%s-align-left { margin-left: 0 !important; margin-right: auto !important }\n", p)
	fmt.Fprintf(sb, "%s-align-center { margin-left: auto !important; margin-right: auto !important }\n", p)
	fmt.Fprintf(sb, "%s-align-right { margin-left: auto !important; margin-right: 0 !important }\n", p)
	for _, a := range []string{"left", "center", "right"} {
		fmt.Fprintf(sb, "%s-text-%s { text-align: %s !important }\n", p, a, a)
	}
	fmt.Fprintf(sb, "%s-relative { position: relative !important }\n", p)
	fmt.Fprintf(sb, "%s-hidden { display: none !important }\n", p)

	for _, bp := range defs {
		if bp.IsBase() {
			continue
		}
		fmt.Fprintf(sb, "%s-show-%s { display: none !important }\n", p, bp.Name)
	}
	for _, bp := range defs {
		if bp.IsBase() {
			continue
		}
		fmt.Fprintf(sb, "@media %s { %s-hide-%s { display: none !important } }\n", bp.MediaQuery, p, bp.Name)
		fmt.Fprintf(sb, "@media %s { %s-show-%s { display: block !important } }\n", bp.MediaQuery, p, bp.Name)
	}
}
