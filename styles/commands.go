package styles

import (
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"rstyle/breakpoints"
	"rstyle/common"
)

// Commands returns rule management subcommands.
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "render",
			Usage:     "Generates stylesheet for page(s)",
			Action:    Render,
			ArgsUsage: "[PAGE_ID...]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write stylesheets as page-<ID>.css into `DIRECTORY` instead of STDOUT"},
			},
			CustomHelpTemplate: fmt.Sprintf(`%s
PAGE_ID:
    page(s) to render, site wide rules are always included
    if absent or 0 - only site wide rules are rendered
    more than one page requires --out
`, cli.CommandHelpTemplate),
		},
		{
			Name:      "save",
			Usage:     "Validates and stores rule set submission (JSON)",
			Action:    Save,
			ArgsUsage: "PAYLOAD",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "replace", Usage: "replace all stored breakpoints instead of merging"},
			},
			CustomHelpTemplate: fmt.Sprintf(`%s
PAYLOAD:
    path to JSON file, "-" reads STDIN:
    {"selector": ".hero", "scope": "page", "page_id": 7, "priority": 0,
     "rules": {"mobile": {"font_size": {"value": 18, "unit": "px"}}}}

Invalid properties and breakpoints are dropped and reported, submission is
rejected only when nothing valid remains.
`, cli.CommandHelpTemplate),
		},
		{
			Name:      "delete",
			Usage:     "Removes rule set",
			Action:    Delete,
			ArgsUsage: "ID",
		},
		{
			Name:      "toggle",
			Usage:     "Activates or deactivates rule set",
			Action:    Toggle,
			ArgsUsage: "ID",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "active", Value: true, Usage: "new state, use --active=false to deactivate"},
			},
		},
		{
			Name:      "priority",
			Usage:     "Changes rule set priority, higher is emitted later",
			Action:    Priority,
			ArgsUsage: "ID PRIORITY",
		},
		{
			Name:      "bulk",
			Usage:     "Applies action to several rule sets",
			Action:    Bulk,
			ArgsUsage: "ACTION ID...",
			CustomHelpTemplate: fmt.Sprintf(`%s
ACTION:
    one of %s
`, cli.CommandHelpTemplate, strings.Join(common.BulkActionNames(), ", ")),
		},
		{
			Name:      "list",
			Usage:     "Lists stored rule sets",
			Action:    List,
			ArgsUsage: "[PAGE_ID]",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "tree", Usage: "show breakpoints and declarations of every rule set"},
			},
		},
		{
			Name:   "breakpoints",
			Usage:  "Lists registered breakpoints",
			Action: Breakpoints,
		},
		{
			Name:      "scale",
			Usage:     "Scales value proportionally between breakpoints",
			Action:    Scale,
			ArgsUsage: "VALUE",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "from", Value: breakpoints.Desktop, Usage: "source breakpoint `NAME`"},
				&cli.StringFlag{Name: "to", Value: breakpoints.Mobile, Usage: "target breakpoint `NAME`"},
				&cli.StringFlag{Name: "class", Value: common.ProportionTypeGeneral.String(),
					Usage: "proportion `TYPE` (supported types: " + strings.Join(common.ProportionTypeNames(), ", ") + ")"},
			},
		},
		{
			Name:      "fill",
			Usage:     "Derives properties for every breakpoint from one breakpoint (JSON)",
			Action:    Fill,
			ArgsUsage: "PROPERTIES",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "from", Value: breakpoints.Desktop, Usage: "source breakpoint `NAME`"},
			},
			CustomHelpTemplate: fmt.Sprintf(`%s
PROPERTIES:
    path to JSON file, "-" reads STDIN:
    {"font_size": {"value": 32, "unit": "px"}, "display": "flex"}
`, cli.CommandHelpTemplate),
		},
		{
			Name:      "cleanup",
			Usage:     "Removes page rule sets of pages which no longer exist",
			Action:    Cleanup,
			ArgsUsage: "[PAGE_ID...]",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "all", Usage: "no pages exist, remove every page rule set"},
			},
			CustomHelpTemplate: fmt.Sprintf(`%s
PAGE_ID:
    pages which still exist, page rule sets of any other page are removed
`, cli.CommandHelpTemplate),
		},
	}
}
