package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestTier(t *testing.T) (*Tier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	local, err := NewLocal(DefaultByteBudget)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	remote := &Remote{client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	return NewTier(local, remote), mr
}

func TestKeyCollapsesExtension(t *testing.T) {
	a := Key("Titanic.txt", "the")
	b := Key("Titanic.csv", "the")
	if a != b {
		t.Errorf("Key(.txt)=%q Key(.csv)=%q, want equal", a, b)
	}
	if a != "Titanic:the" {
		t.Errorf("Key = %q, want Titanic:the", a)
	}
}

func TestKeyNestedPath(t *testing.T) {
	got := Key("/data/books/Moby Dick.txt", "whale")
	want := "Moby Dick:whale"
	if got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
}

func TestTierGetMissBeforeAnyWrite(t *testing.T) {
	tier, _ := newTestTier(t)
	got := tier.Get(context.Background(), "nope:word")
	if got != Miss {
		t.Errorf("Get on empty tier = %d, want Miss", got)
	}
}

func TestTierSetThenGetHitsL1(t *testing.T) {
	tier, mr := newTestTier(t)
	ctx := context.Background()

	tier.Set(ctx, "book:the", 42)

	mr.SetError("boom") // L2 now unreachable; L1 should still serve.
	got := tier.Get(ctx, "book:the")
	if got != 42 {
		t.Errorf("Get after local set = %d, want 42", got)
	}
}

func TestTierGetFallsThroughToL2(t *testing.T) {
	local, err := NewLocal(DefaultByteBudget)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	mr := miniredis.RunT(t)
	remote := &Remote{client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	tier := NewTier(local, remote)

	mr.Set("book:whale", "7")

	got := tier.Get(context.Background(), "book:whale")
	if got != 7 {
		t.Errorf("Get = %d, want 7", got)
	}

	// Second read must come from L1 without touching L2: flip L2's value
	// and confirm the cached answer doesn't change.
	mr.Set("book:whale", "999")
	got = tier.Get(context.Background(), "book:whale")
	if got != 7 {
		t.Errorf("Get after L2 change = %d, want 7 (should be served from L1)", got)
	}
}

func TestTierAbsentIsNotCachedLocally(t *testing.T) {
	tier, mr := newTestTier(t)
	ctx := context.Background()

	got := tier.Get(ctx, "book:zzz")
	if got != Miss {
		t.Fatalf("Get = %d, want Miss", got)
	}

	mr.Set("book:zzz", "3")
	got = tier.Get(ctx, "book:zzz")
	if got != 3 {
		t.Errorf("Get after L2 populated = %d, want 3 (Miss must not have been cached in L1)", got)
	}
}

func TestTierSetChoosesTTLByValue(t *testing.T) {
	tier, mr := newTestTier(t)
	ctx := context.Background()

	tier.Set(ctx, "book:absent", 0)
	tier.Set(ctx, "book:present", 5)

	if ttl := mr.TTL("book:absent"); ttl != AbsentTTL {
		t.Errorf("absent TTL = %v, want %v", ttl, AbsentTTL)
	}
	if ttl := mr.TTL("book:present"); ttl != PresentTTL {
		t.Errorf("present TTL = %v, want %v", ttl, PresentTTL)
	}
}

func TestRemoteGetStates(t *testing.T) {
	mr := miniredis.RunT(t)
	remote := &Remote{client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	ctx := context.Background()

	if _, state, _ := remote.Get(ctx, "missing"); state != Absent {
		t.Errorf("state for missing key = %v, want Absent", state)
	}

	remote.Set(ctx, "present", 9, time.Minute)
	v, state, err := remote.Get(ctx, "present")
	if err != nil || state != Present || v != 9 {
		t.Errorf("Get(present) = (%d, %v, %v), want (9, Present, nil)", v, state, err)
	}

	mr.Close()
	if _, state, err := remote.Get(ctx, "present"); state != TransportError || err == nil {
		t.Errorf("state after close = %v (err=%v), want TransportError with non-nil err", state, err)
	}
}

func TestLocalGetOrComputeSingleflight(t *testing.T) {
	local, err := NewLocal(DefaultByteBudget)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	calls := 0
	loader := func() (int64, bool, error) {
		calls++
		return 11, true, nil
	}

	for i := 0; i < 5; i++ {
		v, err := local.GetOrCompute("k", loader)
		if err != nil || v != 11 {
			t.Fatalf("GetOrCompute = (%d, %v), want (11, nil)", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestLocalGetOrComputeDoesNotCacheMiss(t *testing.T) {
	local, err := NewLocal(DefaultByteBudget)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	calls := 0
	miss := func() (int64, bool, error) {
		calls++
		return Miss, false, nil
	}
	local.GetOrCompute("k", miss)
	local.GetOrCompute("k", miss)

	if calls != 2 {
		t.Errorf("loader called %d times, want 2 (Miss must not be cached)", calls)
	}
}
