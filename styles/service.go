// Package styles ties validation, persistence, generation and caching of
// responsive rule sets together and exposes them as command actions.
package styles

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rstyle/breakpoints"
	"rstyle/cache"
	"rstyle/common"
	"rstyle/generate"
	"rstyle/rules"
	"rstyle/scale"
	"rstyle/schema"
	"rstyle/store"
	"rstyle/validate"
)

// Components are the collaborators of a Service. Store is required, missing
// others are created with defaults.
type Components struct {
	Store       store.Store
	Schema      *schema.Registry
	Breakpoints *breakpoints.Registry
	Validator   *validate.Validator
	Engine      *generate.Engine
	Cache       *cache.Cache
}

// Service is safe for concurrent use.
type Service struct {
	store       store.Store
	schema      *schema.Registry
	breakpoints *breakpoints.Registry
	validator   *validate.Validator
	engine      *generate.Engine
	cache       *cache.Cache
	scale       *scale.Calculator
	log         *zap.Logger
}

// New creates service from components.
func New(c Components, log *zap.Logger) (*Service, error) {
	if c.Store == nil {
		return nil, errors.New("rule store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if c.Schema == nil {
		props, err := schema.New()
		if err != nil {
			return nil, fmt.Errorf("unable to build property schema: %w", err)
		}
		c.Schema = props
	}
	if c.Breakpoints == nil {
		c.Breakpoints = breakpoints.NewDefault()
	}
	if c.Validator == nil {
		c.Validator = validate.New(c.Schema, c.Breakpoints, validate.Limits{}, log)
	}
	if c.Engine == nil {
		c.Engine = generate.New(c.Schema, c.Breakpoints, log, generate.WithSafety(c.Validator.Safety()))
	}
	if c.Cache == nil {
		c.Cache = cache.New(log)
	}
	return &Service{
		store:       c.Store,
		schema:      c.Schema,
		breakpoints: c.Breakpoints,
		validator:   c.Validator,
		engine:      c.Engine,
		cache:       c.Cache,
		scale:       scale.New(c.Breakpoints, log),
		log:         log.Named("styles"),
	}, nil
}

// Close releases the store.
func (s *Service) Close() error {
	return s.store.Close()
}

// SaveResult describes outcome of Save.
type SaveResult struct {
	RuleSet rules.RuleSet
	Created bool
	// human readable notes about breakpoints and properties which were dropped
	Dropped []string
}

// Save validates submission and stores it. Rules of an existing rule set
// for the same selector, scope and page are merged per breakpoint unless
// the payload asks to replace them.
func (s *Service) Save(ctx context.Context, p rules.Payload) (SaveResult, error) {
	rs, res, err := s.validator.Payload(p)
	if err != nil {
		return SaveResult{Dropped: res.Dropped}, err
	}
	if protected, ok := s.engine.IsProtected(rs.Selector); ok {
		return SaveResult{}, &rules.ConflictError{Selector: rs.Selector, Protected: protected}
	}

	merge := func(existing, incoming rules.BreakpointRules) rules.BreakpointRules {
		return validate.Merge(existing, incoming, p.Replace)
	}
	saved, created, err := s.store.Save(ctx, *rs, merge)
	if err != nil {
		return SaveResult{}, err
	}
	s.invalidate(saved)

	s.log.Debug("Rule set saved",
		zap.Int64("id", saved.ID),
		zap.Stringer("key", saved.Key()),
		zap.Bool("created", created),
		zap.Int("dropped", len(res.Dropped)))
	return SaveResult{RuleSet: saved, Created: created, Dropped: res.Dropped}, nil
}

// Delete removes rule set.
func (s *Service) Delete(ctx context.Context, id int64) (rules.RuleSet, error) {
	rs, err := s.store.Delete(ctx, id)
	if err != nil {
		return rs, err
	}
	s.invalidate(rs)
	return rs, nil
}

// SetActive toggles rule set. Inactive rule sets are kept but never rendered.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (rules.RuleSet, error) {
	rs, err := s.store.SetActive(ctx, id, active)
	if err != nil {
		return rs, err
	}
	s.invalidate(rs)
	return rs, nil
}

// SetPriority changes emission order of rule set, higher priority is
// emitted later.
func (s *Service) SetPriority(ctx context.Context, id int64, priority int) (rules.RuleSet, error) {
	rs, err := s.store.SetPriority(ctx, id, priority)
	if err != nil {
		return rs, err
	}
	s.invalidate(rs)
	return rs, nil
}

// Bulk applies action to every id. Failures do not stop processing, ids
// which were changed are returned together with combined errors.
func (s *Service) Bulk(ctx context.Context, action common.BulkAction, ids []int64) ([]int64, error) {
	var apply func(context.Context, int64) (rules.RuleSet, error)
	switch action {
	case common.BulkActionActivate:
		apply = func(ctx context.Context, id int64) (rules.RuleSet, error) { return s.SetActive(ctx, id, true) }
	case common.BulkActionDeactivate:
		apply = func(ctx context.Context, id int64) (rules.RuleSet, error) { return s.SetActive(ctx, id, false) }
	case common.BulkActionDelete:
		apply = s.Delete
	default:
		return nil, rules.Invalid("action", "unsupported bulk action %q", action)
	}

	var (
		done []int64
		errs error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, multierr.Append(errs, err)
		}
		if _, err := apply(ctx, id); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		done = append(done, id)
	}
	return done, errs
}

// Cleanup removes page scoped rule sets of pages which no longer exist.
func (s *Service) Cleanup(ctx context.Context, exists func(pageID int64) bool) ([]rules.RuleSet, error) {
	removed, err := s.store.CleanupOrphans(ctx, exists)
	if err != nil {
		return nil, err
	}
	for _, rs := range removed {
		s.invalidate(rs)
	}
	if len(removed) > 0 {
		s.log.Info("Orphaned rule sets removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}

// RegisterBreakpoint adds or replaces breakpoint. Media queries affect every
// stylesheet so all cached output is dropped.
func (s *Service) RegisterBreakpoint(def breakpoints.Definition) error {
	if err := s.breakpoints.Register(def); err != nil {
		return err
	}
	s.cache.Invalidate(cache.All)
	return nil
}

// Stylesheet returns CSS for page: active site rule sets plus active rule
// sets of the page. It never fails, when store is not available empty
// stylesheet is returned and nothing is cached.
func (s *Service) Stylesheet(ctx context.Context, pageID int64) string {
	out, err := s.cache.GetOrTry(cache.PageKey(pageID), func() (string, error) {
		sets, err := s.store.Rules(ctx, pageID)
		if err != nil {
			return "", err
		}
		return s.engine.Generate(sets), nil
	})
	if err != nil {
		s.log.Warn("Unable to load rules, serving empty stylesheet", zap.Int64("page", pageID), zap.Error(err))
		return ""
	}
	return out
}

// List returns stored rule sets, inactive ones included. Positive pageID
// limits output to rule sets which apply to that page. Site rule sets come
// first, then pages in ascending order, selectors in natural order.
func (s *Service) List(ctx context.Context, pageID int64) ([]rules.RuleSet, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	if pageID > 0 {
		all = slices.DeleteFunc(all, func(rs rules.RuleSet) bool {
			return rs.Scope != common.ScopeSite && rs.PageID != pageID
		})
	}
	slices.SortStableFunc(all, func(a, b rules.RuleSet) int {
		if a.Scope != b.Scope {
			if a.Scope == common.ScopeSite {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.PageID, b.PageID); c != 0 {
			return c
		}
		switch {
		case natural.Less(a.Selector, b.Selector):
			return -1
		case natural.Less(b.Selector, a.Selector):
			return 1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return all, nil
}

// Scale converts value proportionally between breakpoints.
func (s *Service) Scale(value float64, src, dst string, class common.ProportionType) (float64, bool) {
	return s.scale.Scale(value, src, dst, class)
}

// Fill derives rules for every breakpoint from properties defined for src.
func (s *Service) Fill(props rules.Properties, src string) (rules.BreakpointRules, error) {
	filled, ok := s.scale.Fill(props, src, s.schema)
	if !ok {
		return nil, rules.Invalid("breakpoint", "unknown breakpoint %q", src)
	}
	return filled, nil
}

// Breakpoints returns registered breakpoints in registration order.
func (s *Service) Breakpoints() []breakpoints.Definition {
	return s.breakpoints.All()
}

func (s *Service) invalidate(rs rules.RuleSet) {
	if rs.Scope == common.ScopeSite {
		s.cache.Invalidate(cache.All)
		return
	}
	s.cache.Invalidate(cache.PageKey(rs.PageID))
}
