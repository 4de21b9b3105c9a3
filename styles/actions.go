package styles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rstyle/common"
	"rstyle/rules"
	"rstyle/state"
)

type action func(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error

// run opens service for the duration of a single command. When debug report
// is requested the rule store is added to it after the command finished.
func run(name string, fn action) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) (err error) {
		if err := ctx.Err(); err != nil {
			return err
		}

		env := state.EnvFromContext(ctx)
		log := env.Log.Named(name)

		svc, err := Open(ctx, env.Cfg, env.Log)
		if err != nil {
			return fmt.Errorf("unable to open rule store: %w", err)
		}
		defer func() {
			if env.Rpt != nil {
				if sets, er := svc.List(ctx, 0); er == nil {
					env.Rpt.StoreData("rules.txt", []byte(svc.Tree(sets)))
				}
			}
			if er := svc.Close(); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to close rule store: %w", er))
			}
			if env.Rpt != nil {
				if er := env.Rpt.StoreCopy("rules.db", env.Cfg.Store.Path); er != nil {
					log.Warn("Unable to add rule store to debug report", zap.Error(er))
				}
			}
		}()
		return fn(ctx, cmd, env, svc, log)
	}
}

var (
	Render      = run("render", render)
	Save        = run("save", save)
	Delete      = run("delete", deleteRuleSet)
	Toggle      = run("toggle", toggle)
	Priority    = run("priority", priority)
	Bulk        = run("bulk", bulk)
	List        = run("list", list)
	Breakpoints = run("breakpoints", listBreakpoints)
	Scale       = run("scale", scaleValue)
	Fill        = run("fill", fill)
	Cleanup     = run("cleanup", cleanup)
)

func render(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error {
	pages, err := parseIDs(cmd.Args().Slice(), true)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		// site rule sets only
		pages = []int64{0}
	}
	slices.Sort(pages)
	pages = slices.Compact(pages)

	dst := cmd.String("out")
	if len(dst) == 0 {
		if len(pages) > 1 {
			return errors.New("rendering multiple pages requires destination directory (--out)")
		}
		css := svc.Stylesheet(ctx, pages[0])
		env.Rpt.StoreData(pageFileName(pages[0]), []byte(css))
		_, err := io.WriteString(env.Out, css)
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, page := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			css := svc.Stylesheet(ctx, page)
			env.Rpt.StoreData(pageFileName(page), []byte(css))

			fname := filepath.Join(dst, filepath.Base(pageFileName(page)))
			if err := os.WriteFile(fname, []byte(css), 0644); err != nil {
				return fmt.Errorf("unable to write stylesheet for page %d: %w", page, err)
			}
			log.Info("Stylesheet written", zap.Int64("page", page), zap.String("file", fname), zap.Int("size", len(css)))
			return nil
		})
	}
	return g.Wait()
}

func pageFileName(page int64) string {
	if page == 0 {
		return "css/site.css"
	}
	return fmt.Sprintf("css/page-%d.css", page)
}

func save(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no payload has been specified")
	}

	data, err := readInput(env, src)
	if err != nil {
		return err
	}
	env.Rpt.StoreData("payload.json", data)

	var p rules.Payload
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if cmd.Bool("replace") {
		p.Replace = true
	}

	res, err := svc.Save(ctx, p)
	for _, note := range res.Dropped {
		log.Warn("Dropped", zap.String("reason", note))
	}
	if err != nil {
		return err
	}
	log.Info("Rule set saved",
		zap.Int64("id", res.RuleSet.ID),
		zap.String("selector", res.RuleSet.Selector),
		zap.Stringer("scope", res.RuleSet.Scope),
		zap.Bool("created", res.Created))
	return nil
}

func readInput(env *state.LocalEnv, src string) ([]byte, error) {
	if src == "-" {
		data, err := io.ReadAll(env.In)
		if err != nil {
			return nil, fmt.Errorf("unable to read payload from STDIN: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("unable to read payload: %w", err)
	}
	return data, nil
}

func deleteRuleSet(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error {
	id, err := parseID(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	rs, err := svc.Delete(ctx, id)
	if err != nil {
		return err
	}
	log.Info("Rule set deleted", zap.Int64("id", rs.ID), zap.String("selector", rs.Selector))
	return nil
}

func toggle(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error {
	id, err := parseID(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	rs, err := svc.SetActive(ctx, id, cmd.Bool("active"))
	if err != nil {
		return err
	}
	log.Info("Rule set updated", zap.Int64("id", rs.ID), zap.Bool("active", rs.Active))
	return nil
}

func priority(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error {
	id, err := parseID(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	p, err := strconv.Atoi(cmd.Args().Get(1))
	if err != nil {
		return rules.Invalid("priority", "must be an integer")
	}
	rs, err := svc.SetPriority(ctx, id, p)
	if err != nil {
		return err
	}
	log.Info("Rule set updated", zap.Int64("id", rs.ID), zap.Int("priority", rs.Priority))
	return nil
}

func bulk(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error {
	action, err := common.ParseBulkAction(cmd.Args().Get(0))
	if err != nil {
		return rules.Invalid("action", "must be one of %s", strings.Join(common.BulkActionNames(), ", "))
	}
	ids, err := parseIDs(cmd.Args().Tail(), false)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return errors.New("no rule set ids have been specified")
	}

	done, err := svc.Bulk(ctx, action, ids)
	log.Info("Bulk action completed", zap.Stringer("action", action), zap.Int("requested", len(ids)), zap.Int("affected", len(done)))
	return err
}

func list(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error {
	var page int64
	if arg := cmd.Args().Get(0); len(arg) > 0 {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		page = id
	}

	sets, err := svc.List(ctx, page)
	if err != nil {
		return err
	}
	log.Debug("Listing rule sets", zap.Int64("page", page), zap.Int("count", len(sets)))

	if cmd.Bool("tree") {
		_, err := io.WriteString(env.Out, svc.Tree(sets))
		return err
	}

	w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCOPE\tPAGE\tSELECTOR\tBREAKPOINTS\tPRIORITY\tACTIVE\tUPDATED")
	for _, rs := range sets {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%d\t%t\t%s\n",
			rs.ID, rs.Scope, rs.PageID, rs.Selector, strings.Join(breakpointNames(svc, rs), ","),
			rs.Priority, rs.Active, humanize.Time(rs.UpdatedAt))
	}
	return w.Flush()
}

// breakpointNames returns breakpoints of rs in registry order, unknown ones last.
func breakpointNames(svc *Service, rs rules.RuleSet) []string {
	names := make([]string, 0, len(rs.Rules))
	seen := make(map[string]bool, len(rs.Rules))
	for _, bp := range svc.Breakpoints() {
		if _, ok := rs.Rules[bp.Name]; ok {
			names = append(names, bp.Name)
			seen[bp.Name] = true
		}
	}
	for name := range rs.Rules {
		if !seen[name] {
			names = append(names, name+"?")
		}
	}
	return names
}

func listBreakpoints(_ context.Context, _ *cli.Command, env *state.LocalEnv, svc *Service, _ *zap.Logger) error {
	w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMEDIA QUERY\tREFERENCE")
	for _, bp := range svc.Breakpoints() {
		mq := bp.MediaQuery
		if bp.IsBase() {
			mq = "(base)"
		}
		fmt.Fprintf(w, "%s\t%s\t%gx%g\n", bp.Name, mq, bp.Width, bp.Height)
	}
	return w.Flush()
}

func scaleValue(_ context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, _ *zap.Logger) error {
	value, err := strconv.ParseFloat(cmd.Args().Get(0), 64)
	if err != nil {
		return rules.Invalid("value", "must be a number")
	}
	class, err := common.ParseProportionType(cmd.String("class"))
	if err != nil {
		return rules.Invalid("class", "must be one of %s", strings.Join(common.ProportionTypeNames(), ", "))
	}
	src, dst := cmd.String("from"), cmd.String("to")
	scaled, ok := svc.Scale(value, src, dst, class)
	if !ok {
		return rules.Invalid("breakpoint", "unable to scale from %q to %q", src, dst)
	}
	_, err = fmt.Fprintln(env.Out, strconv.FormatFloat(scaled, 'f', -1, 64))
	return err
}

func fill(_ context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, _ *zap.Logger) error {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no properties have been specified")
	}
	data, err := readInput(env, src)
	if err != nil {
		return err
	}
	var props rules.Properties
	if err := json.Unmarshal(data, &props); err != nil {
		return fmt.Errorf("unable to decode properties: %w", err)
	}

	filled, err := svc.Fill(props, cmd.String("from"))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(env.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(filled)
}

func cleanup(ctx context.Context, cmd *cli.Command, env *state.LocalEnv, svc *Service, log *zap.Logger) error {
	keep, err := parseIDs(cmd.Args().Slice(), false)
	if err != nil {
		return err
	}
	if len(keep) == 0 && !cmd.Bool("all") {
		return errors.New("no existing pages have been specified, use --all to remove every page rule set")
	}

	existing := make(map[int64]bool, len(keep))
	for _, id := range keep {
		existing[id] = true
	}
	removed, err := svc.Cleanup(ctx, func(pageID int64) bool { return existing[pageID] })
	if err != nil {
		return err
	}
	for _, rs := range removed {
		log.Debug("Removed", zap.Int64("id", rs.ID), zap.Int64("page", rs.PageID), zap.String("selector", rs.Selector))
	}
	log.Info("Cleanup completed", zap.Int("removed", len(removed)))
	return nil
}

func parseID(arg string) (int64, error) {
	if len(arg) == 0 {
		return 0, errors.New("no rule set id has been specified")
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, rules.Invalid("id", "%q is not a positive integer", arg)
	}
	return id, nil
}

// parseIDs converts arguments to ids, zero is accepted when allowZero is set.
func parseIDs(args []string, allowZero bool) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		if allowZero && arg == "0" {
			ids = append(ids, 0)
			continue
		}
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
