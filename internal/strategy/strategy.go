// Package strategy implements the routing strategy abstraction: given a
// snapshot of healthy endpoints and the raw request payload, pick one.
package strategy

import (
	"context"
	"errors"

	"wordgate/internal/cluster"
)

// ErrNoEndpoint is returned by Pick when the healthy snapshot is empty.
var ErrNoEndpoint = errors.New("no proper endpoint found")

// Strategy picks one endpoint out of a healthy snapshot for a given
// request. Implementations must not block on I/O; they may mutate their own
// internal state but must never mutate the endpoints slice or its elements.
type Strategy interface {
	Name() string
	Pick(ctx context.Context, healthy []*cluster.Endpoint, payload []byte) (*cluster.Endpoint, error)
}

// New constructs the strategy named by cfg, defaulting to RoundRobin for any
// unrecognized name (mirrors the Rust original's match-with-wildcard).
func New(name string) Strategy {
	switch name {
	case "WeightedRoundRobin":
		return NewWeightedRoundRobin()
	case "HashByRequest":
		return NewHashByRequest()
	default:
		return NewRoundRobin()
	}
}
