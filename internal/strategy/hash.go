package strategy

import (
	"context"

	"github.com/cespare/xxhash/v2"

	"wordgate/internal/cluster"
)

// HashByRequest routes on a stable hash of the raw request payload: the
// same bytes always land on the same index into a given healthy snapshot.
// It carries no state of its own.
type HashByRequest struct{}

func NewHashByRequest() *HashByRequest {
	return &HashByRequest{}
}

func (h *HashByRequest) Name() string { return "HashByRequest" }

func (h *HashByRequest) Pick(_ context.Context, healthy []*cluster.Endpoint, payload []byte) (*cluster.Endpoint, error) {
	n := len(healthy)
	if n == 0 {
		return nil, ErrNoEndpoint
	}
	sum := xxhash.Sum64(payload)
	return healthy[sum%uint64(n)], nil
}
