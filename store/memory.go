package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"rstyle/common"
	"rstyle/rules"
)

var _ Store = (*Memory)(nil)

// Memory keeps rule sets in process memory. It is used for dry runs and
// tests.
type Memory struct {
	mu     sync.Mutex
	sets   map[int64]rules.RuleSet
	lastID int64
	opts   options
	closed bool
}

// NewMemory returns an empty store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{sets: make(map[int64]rules.RuleSet), opts: newOptions(opts)}
}

func (m *Memory) check(op string) error {
	if m.closed {
		return &rules.StoreError{Op: op, Err: errClosed}
	}
	return nil
}

// copies never share rule maps with the store
func cloneSet(rs rules.RuleSet) rules.RuleSet {
	rs.Rules = rs.Rules.Clone()
	return rs
}

func (m *Memory) Rules(_ context.Context, pageID int64) ([]rules.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("rules"); err != nil {
		return nil, err
	}

	var out []rules.RuleSet
	for _, rs := range m.sets {
		if visible(rs, pageID) {
			out = append(out, cloneSet(rs))
		}
	}
	sortByPriority(out)
	return out, nil
}

func (m *Memory) All(_ context.Context) ([]rules.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("all"); err != nil {
		return nil, err
	}

	out := make([]rules.RuleSet, 0, len(m.sets))
	for _, rs := range m.sets {
		out = append(out, cloneSet(rs))
	}
	slices.SortFunc(out, func(a, b rules.RuleSet) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *Memory) Get(_ context.Context, id int64) (rules.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("get"); err != nil {
		return rules.RuleSet{}, err
	}

	rs, ok := m.sets[id]
	if !ok {
		return rules.RuleSet{}, &rules.NotFoundError{ID: id}
	}
	return cloneSet(rs), nil
}

func (m *Memory) Save(_ context.Context, rs rules.RuleSet, merge MergeFunc) (rules.RuleSet, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("save"); err != nil {
		return rules.RuleSet{}, false, err
	}

	now := stamp(m.opts.now)
	for id, existing := range m.sets {
		if existing.Key() != rs.Key() {
			continue
		}
		existing.Rules = mergeRules(merge, existing.Rules, rs.Rules)
		existing.ElementID, existing.ElementClass = rs.ElementID, rs.ElementClass
		existing.Priority = rs.Priority
		existing.Active = true
		existing.UpdatedAt = now
		m.sets[id] = existing
		return cloneSet(existing), false, nil
	}

	m.lastID++
	rs = cloneSet(rs)
	rs.ID = m.lastID
	rs.Active = true
	rs.CreatedAt, rs.UpdatedAt = now, now
	m.sets[rs.ID] = rs
	return cloneSet(rs), true, nil
}

func (m *Memory) Delete(_ context.Context, id int64) (rules.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("delete"); err != nil {
		return rules.RuleSet{}, err
	}

	rs, ok := m.sets[id]
	if !ok {
		return rules.RuleSet{}, &rules.NotFoundError{ID: id}
	}
	delete(m.sets, id)
	return rs, nil
}

func (m *Memory) SetActive(_ context.Context, id int64, active bool) (rules.RuleSet, error) {
	return m.update("set active", id, func(rs *rules.RuleSet) { rs.Active = active })
}

func (m *Memory) SetPriority(_ context.Context, id int64, priority int) (rules.RuleSet, error) {
	return m.update("set priority", id, func(rs *rules.RuleSet) { rs.Priority = priority })
}

func (m *Memory) update(op string, id int64, fn func(*rules.RuleSet)) (rules.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(op); err != nil {
		return rules.RuleSet{}, err
	}

	rs, ok := m.sets[id]
	if !ok {
		return rules.RuleSet{}, &rules.NotFoundError{ID: id}
	}
	fn(&rs)
	rs.UpdatedAt = stamp(m.opts.now)
	m.sets[id] = rs
	return cloneSet(rs), nil
}

func (m *Memory) CleanupOrphans(_ context.Context, exists func(pageID int64) bool) ([]rules.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("cleanup"); err != nil {
		return nil, err
	}

	var removed []rules.RuleSet
	for id, rs := range m.sets {
		if rs.Scope != common.ScopePage || exists(rs.PageID) {
			continue
		}
		delete(m.sets, id)
		removed = append(removed, rs)
	}
	slices.SortFunc(removed, func(a, b rules.RuleSet) int { return cmp.Compare(a.ID, b.ID) })
	return removed, nil
}

// Close makes every further call fail with ErrStoreUnavailable.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
