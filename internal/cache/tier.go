package cache

import (
	"context"
	"path/filepath"
	"strings"

	"wordgate/internal/metrics"
)

// Tier composes L1 and L2 into the read/write paths the counter service
// calls on every lookup.
type Tier struct {
	local  *Local
	remote *Remote
}

// NewTier wires a Local and Remote tier together.
func NewTier(local *Local, remote *Remote) *Tier {
	return &Tier{local: local, remote: remote}
}

// Key derives the cache key for a (word, fileName) request: the file's stem
// (name with a single trailing extension stripped) joined to the word.
// Two file names that differ only in extension - "Titanic.txt" vs
// "Titanic.csv" - collide to the same key by design.
func Key(fileName, word string) string {
	return stem(fileName) + ":" + word
}

func stem(fileName string) string {
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// Get runs the read path: a direct L1 peek first (recorded as a "local"
// cache hit), then L1.GetOrCompute with a loader that falls through to L2
// (recorded as a "remote" hit or miss). A present L2 value is cached in L1
// and returned; an absent or transport-errored L2 lookup returns the Miss
// sentinel and is never inserted into L1, since sentinels must never be
// stored.
func (t *Tier) Get(ctx context.Context, key string) int64 {
	if v, ok := t.local.Peek(key); ok {
		metrics.IncCacheHit("local")
		return v
	}

	v, _ := t.local.GetOrCompute(key, func() (int64, bool, error) {
		val, state, _ := t.remote.Get(ctx, key)
		if state != Present {
			metrics.IncCacheMiss("remote")
			return Miss, false, nil
		}
		metrics.IncCacheHit("remote")
		return val, true, nil
	})
	return v
}

// Set runs the write path: value lands in L1 unconditionally, then in L2
// with a TTL chosen by whether the count is zero. value must never be
// Miss - callers hold a freshly scanned count, not a sentinel.
func (t *Tier) Set(ctx context.Context, key string, value int64) {
	t.local.Set(key, value)

	ttl := PresentTTL
	if value == 0 {
		ttl = AbsentTTL
	}
	t.remote.Set(ctx, key, value, ttl)
}
