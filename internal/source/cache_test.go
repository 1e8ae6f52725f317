package source

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// countingSource returns a fixed table and counts fetches.
type countingSource struct {
	fetches int32
	err     error
}

func (s *countingSource) Fetch(ctx context.Context) (*RawTable, error) {
	atomic.AddInt32(&s.fetches, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &RawTable{
		Headers: []string{"Campanha ou Ação"},
		Rows:    [][]string{{"Campanha X"}},
		Sheet:   "Demandas ID",
	}, nil
}

func (s *countingSource) count() int32 {
	return atomic.LoadInt32(&s.fetches)
}

func TestCachedSourceServesWithinTTL(t *testing.T) {
	inner := &countingSource{}
	cache := NewCachedSource(inner, time.Minute, nil)

	ctx := context.Background()
	first, err := cache.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	second, err := cache.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if inner.count() != 1 {
		t.Errorf("inner fetches = %d, want 1", inner.count())
	}
	if first != second {
		t.Error("second Fetch() should return the cached snapshot")
	}
}

func TestCachedSourceExpires(t *testing.T) {
	inner := &countingSource{}
	cache := NewCachedSource(inner, 10*time.Millisecond, nil)

	ctx := context.Background()
	if _, err := cache.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := cache.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if inner.count() != 2 {
		t.Errorf("inner fetches = %d, want 2 after TTL expiry", inner.count())
	}
}

func TestCachedSourceZeroTTLDisablesCaching(t *testing.T) {
	inner := &countingSource{}
	cache := NewCachedSource(inner, 0, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := cache.Fetch(ctx); err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
	}

	if inner.count() != 3 {
		t.Errorf("inner fetches = %d, want 3 with caching disabled", inner.count())
	}
}

func TestCachedSourceForceRefresh(t *testing.T) {
	inner := &countingSource{}
	cache := NewCachedSource(inner, time.Minute, nil)

	ctx := context.Background()
	if _, err := cache.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if _, err := cache.ForceRefresh(ctx); err != nil {
		t.Fatalf("ForceRefresh() error: %v", err)
	}

	if inner.count() != 2 {
		t.Errorf("inner fetches = %d, want 2 after forced refresh", inner.count())
	}
}

func TestCachedSourceInvalidate(t *testing.T) {
	inner := &countingSource{}
	cache := NewCachedSource(inner, time.Minute, nil)

	ctx := context.Background()
	if _, err := cache.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	cache.Invalidate()
	if _, err := cache.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if inner.count() != 2 {
		t.Errorf("inner fetches = %d, want 2 after invalidation", inner.count())
	}
}

func TestCachedSourceKeepsSnapshotOnFailedRefresh(t *testing.T) {
	inner := &countingSource{}
	cache := NewCachedSource(inner, 10*time.Millisecond, nil)

	ctx := context.Background()
	if _, err := cache.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	inner.err = context.DeadlineExceeded
	time.Sleep(20 * time.Millisecond)
	if _, err := cache.Fetch(ctx); err == nil {
		t.Fatal("Fetch() after inner failure should surface the error")
	}

	// The stale snapshot survives the failed refresh and is served again
	// once the inner source recovers inside a fresh window.
	inner.err = nil
	if _, err := cache.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() after recovery error: %v", err)
	}
}
