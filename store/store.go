// Package store persists rule sets.
//
// At most one rule set exists per (selector, scope, page) tuple: saving an
// existing tuple updates it in place and makes it active again.
package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"rstyle/common"
	"rstyle/rules"
)

// MergeFunc combines stored rules of an existing rule set with incoming
// ones. Nil replaces stored rules.
type MergeFunc func(existing, incoming rules.BreakpointRules) rules.BreakpointRules

// Store is the rule set persistence collaborator. Failures of the backing
// storage are reported as *rules.StoreError, unknown ids as
// *rules.NotFoundError.
type Store interface {
	// Rules returns active site rule sets plus active rule sets of the page,
	// ordered by priority and id.
	Rules(ctx context.Context, pageID int64) ([]rules.RuleSet, error)
	// All returns every rule set including inactive ones, ordered by id.
	All(ctx context.Context) ([]rules.RuleSet, error)
	Get(ctx context.Context, id int64) (rules.RuleSet, error)
	// Save inserts or updates the rule set for rs.Key(). It reports whether
	// a new rule set was created.
	Save(ctx context.Context, rs rules.RuleSet, merge MergeFunc) (rules.RuleSet, bool, error)
	// Delete, SetActive and SetPriority return the affected rule set so
	// callers know its scope.
	Delete(ctx context.Context, id int64) (rules.RuleSet, error)
	SetActive(ctx context.Context, id int64, active bool) (rules.RuleSet, error)
	SetPriority(ctx context.Context, id int64, priority int) (rules.RuleSet, error)
	// CleanupOrphans removes page scoped rule sets whose page no longer
	// exists and returns them.
	CleanupOrphans(ctx context.Context, exists func(pageID int64) bool) ([]rules.RuleSet, error)
	Close() error
}

// Option configures store implementations.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamps are kept with millisecond precision in UTC by every implementation
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}

// visible reports whether rs applies when rendering pageID.
func visible(rs rules.RuleSet, pageID int64) bool {
	if !rs.Active {
		return false
	}
	return rs.Scope == common.ScopeSite || rs.PageID == pageID
}

func sortByPriority(sets []rules.RuleSet) {
	slices.SortFunc(sets, func(a, b rules.RuleSet) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func mergeRules(merge MergeFunc, existing, incoming rules.BreakpointRules) rules.BreakpointRules {
	if merge == nil {
		return incoming.Clone()
	}
	return merge(existing, incoming)
}

var errClosed = errors.New("store is closed")
