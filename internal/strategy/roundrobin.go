package strategy

import (
	"context"
	"sync/atomic"

	"wordgate/internal/cluster"
)

// RoundRobin selects endpoints in config order, wrapping modulo the current
// healthy snapshot size. The counter only ever increases; its position
// relative to any one snapshot is what determines which endpoint comes
// next, so a shrinking/growing healthy set (endpoints going up or down)
// changes the cycle without the caller needing to reset anything.
type RoundRobin struct {
	idx atomic.Uint64
}

func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

func (r *RoundRobin) Name() string { return "RoundRobin" }

func (r *RoundRobin) Pick(_ context.Context, healthy []*cluster.Endpoint, _ []byte) (*cluster.Endpoint, error) {
	n := len(healthy)
	if n == 0 {
		return nil, ErrNoEndpoint
	}
	i := r.idx.Add(1) - 1
	return healthy[int(i%uint64(n))], nil
}
