package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newCache(t *testing.T, opts ...Option) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return New(zaptest.NewLogger(t), append([]Option{WithClock(clock.Now)}, opts...)...), clock
}

// counting producer
type producer struct {
	calls int
	out   string
}

func (p *producer) produce() string {
	p.calls++
	return p.out + strconv.Itoa(p.calls)
}

func TestGetOrGenerate_Hit(t *testing.T) {
	c, _ := newCache(t)
	p := &producer{out: "css"}

	first := c.GetOrGenerate(PageKey(1), p.produce)
	second := c.GetOrGenerate(PageKey(1), p.produce)
	if first != "css1" || second != "css1" {
		t.Errorf("GetOrGenerate() = %q, %q; want cached css1", first, second)
	}
	if p.calls != 1 {
		t.Errorf("producer called %d times, want 1", p.calls)
	}

	c.GetOrGenerate(PageKey(2), p.produce)
	if p.calls != 2 {
		t.Error("different key must call producer")
	}
}

func TestGetOrGenerate_TTL(t *testing.T) {
	c, clock := newCache(t)
	p := &producer{}

	c.GetOrGenerate("k", p.produce)
	clock.Advance(DefaultTTL - time.Second)
	c.GetOrGenerate("k", p.produce)
	if p.calls != 1 {
		t.Fatalf("entry expired too early, calls = %d", p.calls)
	}
	clock.Advance(time.Second)
	if got := c.GetOrGenerate("k", p.produce); got != "2" {
		t.Errorf("GetOrGenerate() after TTL = %q, want fresh value", got)
	}
	a, ok := c.Get("k")
	if !ok || a.CSS != "2" || !a.GeneratedAt.Equal(clock.Now()) || a.Key != "k" {
		t.Errorf("Get() = %+v, %v", a, ok)
	}
}

func TestWithTTL(t *testing.T) {
	c, clock := newCache(t, WithTTL(time.Minute))
	if c.TTL() != time.Minute {
		t.Fatalf("TTL() = %v", c.TTL())
	}
	p := &producer{}
	c.GetOrGenerate("k", p.produce)
	clock.Advance(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("entry must expire after custom TTL")
	}
	if c.Len() != 0 {
		t.Error("expired entry must be evicted")
	}

	if d, _ := newCache(t, WithTTL(0)); d.TTL() != DefaultTTL {
		t.Error("zero TTL must keep default")
	}
}

func TestInvalidate(t *testing.T) {
	c, _ := newCache(t)
	p := &producer{}

	for i := range 3 {
		c.GetOrGenerate(PageKey(int64(i)), p.produce)
	}

	c.Invalidate(PageKey(1))
	if _, ok := c.Get(PageKey(1)); ok {
		t.Error("invalidated key still cached")
	}
	if _, ok := c.Get(PageKey(2)); !ok {
		t.Error("other keys must survive single invalidation")
	}

	c.Invalidate(All)
	if c.Len() != 0 {
		t.Errorf("Len() after Invalidate(All) = %d", c.Len())
	}
	calls := p.calls
	for i := range 3 {
		c.GetOrGenerate(PageKey(int64(i)), p.produce)
	}
	if p.calls != calls+3 {
		t.Errorf("every key must regenerate after Invalidate(All), calls = %d", p.calls-calls)
	}
}

func TestGetOrGenerate_InvalidatedDuringGeneration(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"same key", "page:1"},
		{"all", All},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCache(t)
			got := c.GetOrGenerate("page:1", func() string {
				c.Invalidate(tt.key)
				return "stale"
			})
			if got != "stale" {
				t.Errorf("GetOrGenerate() = %q, caller must still get its result", got)
			}
			if _, ok := c.Get("page:1"); ok {
				t.Error("result computed across invalidation must not be stored")
			}
		})
	}

	c, _ := newCache(t)
	c.GetOrGenerate("page:1", func() string {
		c.Invalidate("page:2")
		return "fresh"
	})
	if _, ok := c.Get("page:1"); !ok {
		t.Error("unrelated invalidation must not prevent storing")
	}
}

func TestGetOrGenerate_Concurrent(t *testing.T) {
	c, _ := newCache(t)
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Go(func() {
			key := PageKey(int64(i % 4))
			if got := c.GetOrGenerate(key, func() string { return key }); got != key {
				t.Errorf("GetOrGenerate(%q) = %q", key, got)
			}
			if i%8 == 0 {
				c.Invalidate(All)
			}
		})
	}
	wg.Wait()
}

func TestPageKey(t *testing.T) {
	if got := PageKey(42); got != "page:42" {
		t.Errorf("PageKey(42) = %q", got)
	}
	if PageKey(0) == All {
		t.Error("page key must never collide with All")
	}
}

func TestGetOrTry_ErrorsAreNotCached(t *testing.T) {
	c, _ := newCache(t)
	boom := errors.New("store down")

	out, err := c.GetOrTry("k", func() (string, error) { return "", boom })
	if !errors.Is(err, boom) || out != "" {
		t.Fatalf("GetOrTry() = %q, %v", out, err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("failed result must not be stored")
	}

	out, err = c.GetOrTry("k", func() (string, error) { return "css", nil })
	if err != nil || out != "css" {
		t.Fatalf("GetOrTry() = %q, %v", out, err)
	}
	out, _ = c.GetOrTry("k", func() (string, error) { return "", boom })
	if out != "css" {
		t.Errorf("GetOrTry() must return cached value, got %q", out)
	}
}
