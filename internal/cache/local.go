package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// assumedEntryBytes approximates the memory cost of one cache line (key
// string plus int64 value plus map/list overhead) for translating the
// configured byte budget into an LRU entry count. golang-lru/v2 evicts by
// entry count, not by measured size, so this is a deliberate approximation
// rather than an exact byte-budget enforcement.
const assumedEntryBytes = 128

const DefaultByteBudget = 32 * 1024 * 1024 // 32 MiB

// Local is the L1 tier: a bounded, in-process LRU of word counts with
// single-flight loader coalescing so concurrent misses on the same key
// invoke the loader exactly once.
type Local struct {
	cache *lru.Cache[string, int64]
	group singleflight.Group
}

// NewLocal builds an L1 cache sized to hold roughly byteBudget bytes of
// entries. A non-positive budget falls back to DefaultByteBudget.
func NewLocal(byteBudget int) (*Local, error) {
	if byteBudget <= 0 {
		byteBudget = DefaultByteBudget
	}
	entries := byteBudget / assumedEntryBytes
	if entries < 1 {
		entries = 1
	}
	c, err := lru.New[string, int64](entries)
	if err != nil {
		return nil, err
	}
	return &Local{cache: c}, nil
}

// Peek returns the locally cached value without touching the loader.
func (l *Local) Peek(key string) (int64, bool) {
	return l.cache.Get(key)
}

// Set inserts or overwrites key's value in L1.
func (l *Local) Set(key string, value int64) {
	l.cache.Add(key, value)
}

// GetOrCompute returns the locally cached value for key, or invokes loader
// exactly once across all concurrent callers for that key. loader reports
// whether its result is cacheable - the Miss sentinel never is - and only
// cacheable results are stored in L1 before being returned.
func (l *Local) GetOrCompute(key string, loader func() (value int64, cacheable bool, err error)) (int64, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	type result struct {
		value     int64
		cacheable bool
	}

	r, err, _ := l.group.Do(key, func() (interface{}, error) {
		value, cacheable, err := loader()
		if err != nil {
			return result{}, err
		}
		return result{value: value, cacheable: cacheable}, nil
	})
	if err != nil {
		return 0, err
	}

	res := r.(result)
	if res.cacheable {
		l.cache.Add(key, res.value)
	}
	return res.value, nil
}
