package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"wordgate/internal/logging"
)

const (
	// AbsentTTL is the L2 TTL applied when the scanned count is zero - a
	// word that genuinely does not occur re-verifies sooner than a word
	// that does, since a new file revision is more likely to add words
	// than remove them.
	AbsentTTL = 30 * time.Second
	// PresentTTL is the L2 TTL applied to any positive count.
	PresentTTL = 300 * time.Second
)

// Remote is the L2 tier: a thin wrapper over a Redis client storing counts
// as decimal strings.
type Remote struct {
	client *redis.Client
	logger logging.Logger
}

// NewRemote connects to the Redis instance at url (a redis:// URL as
// accepted by redis.ParseURL).
func NewRemote(url string, logger logging.Logger) (*Remote, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Remote{client: redis.NewClient(opts), logger: logger}, nil
}

// Get reports the cached value for key and which of the three L2 states
// applies. err is non-nil only alongside TransportError, and is already
// logged by Get - callers only need it for tests.
func (r *Remote) Get(ctx context.Context, key string) (int64, State, error) {
	s, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, Absent, nil
	}
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("cache remote get failed", "key", key, "err", err)
		}
		return 0, TransportError, err
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("cache remote value unparseable", "key", key, "value", s, "err", err)
		}
		return 0, TransportError, err
	}
	return v, Present, nil
}

// Set writes value under key with ttl selected by the caller (see
// AbsentTTL/PresentTTL). Failures are logged, never returned: a write
// failure degrades to a cache miss on the next read, it does not fail the
// request in flight.
func (r *Remote) Set(ctx context.Context, key string, value int64, ttl time.Duration) {
	if err := r.client.Set(ctx, key, strconv.FormatInt(value, 10), ttl).Err(); err != nil {
		if r.logger != nil {
			r.logger.Warn("cache remote set failed", "key", key, "err", err)
		}
	}
}

// Close releases the underlying connection pool.
func (r *Remote) Close() error {
	return r.client.Close()
}
