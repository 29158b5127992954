// Package loadbalancer holds the routing core: a fixed endpoint roster, a
// pluggable strategy, and the health-maintenance loop that gates which
// endpoints the strategy is allowed to pick from.
package loadbalancer

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"wordgate/internal/cluster"
	"wordgate/internal/logging"
	"wordgate/internal/metrics"
	"wordgate/internal/strategy"
)

// healthInterval is how often the maintenance loop probes every endpoint.
const healthInterval = 500 * time.Millisecond

var ErrNoHealthyEndpoint = errors.New("loadbalancer: no proper endpoint")

// LoadBalancer owns the endpoint roster and the active routing strategy.
// The roster is fixed at construction time (static endpoint list per
// config); only each endpoint's health flag changes at runtime.
type LoadBalancer struct {
	name     string
	roster   []*cluster.Endpoint
	strategy strategy.Strategy
	logger   logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a load balancer over roster, routing with the named strategy.
// name labels the unhealthy-endpoints gauge, so multiple load balancer
// processes scraped by the same Prometheus instance stay distinguishable.
func New(name string, roster []*cluster.Endpoint, s strategy.Strategy, logger logging.Logger) *LoadBalancer {
	return &LoadBalancer{name: name, roster: roster, strategy: s, logger: logger}
}

// Handle picks one healthy endpoint and forwards reqBytes to it. Returns
// ErrNoHealthyEndpoint if the current healthy snapshot is empty - callers
// (the front door) turn that into the canned failure frame.
func (lb *LoadBalancer) Handle(ctx context.Context, reqBytes []byte) ([]byte, error) {
	healthy := lb.healthySnapshot()
	if len(healthy) == 0 {
		return nil, ErrNoHealthyEndpoint
	}

	ep, err := lb.strategy.Pick(ctx, healthy, reqBytes)
	if err != nil {
		return nil, ErrNoHealthyEndpoint
	}

	return ep.Handle(ctx, reqBytes)
}

func (lb *LoadBalancer) healthySnapshot() []*cluster.Endpoint {
	out := make([]*cluster.Endpoint, 0, len(lb.roster))
	for _, ep := range lb.roster {
		if ep.HealthReport() {
			out = append(out, ep)
		}
	}
	return out
}

// StartHealthMaintain launches the background probe loop. Calling it twice
// without an intervening StopHealthMaintain is a no-op.
func (lb *LoadBalancer) StartHealthMaintain(ctx context.Context) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	lb.cancel = cancel
	lb.done = make(chan struct{})

	go lb.runHealthMaintain(loopCtx)
}

// StopHealthMaintain signals the loop to exit after its in-flight round
// finishes and blocks until it has. Safe to call when the loop was never
// started.
func (lb *LoadBalancer) StopHealthMaintain() {
	lb.mu.Lock()
	cancel := lb.cancel
	done := lb.done
	lb.cancel = nil
	lb.done = nil
	lb.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (lb *LoadBalancer) runHealthMaintain(ctx context.Context) {
	defer close(lb.done)

	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()

	lb.probeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// The stop signal is only observed here, between rounds: a
			// round already underway always finishes its probes.
			if ctx.Err() != nil {
				return
			}
			lb.probeAll()
		}
	}
}

func (lb *LoadBalancer) probeAll() {
	g, gctx := errgroup.WithContext(context.Background())
	for _, ep := range lb.roster {
		ep := ep
		g.Go(func() error {
			ep.HealthCheck(gctx)
			return nil
		})
	}
	_ = g.Wait()

	unhealthy := 0
	for _, ep := range lb.roster {
		if !ep.HealthReport() {
			unhealthy++
		}
	}
	metrics.SetClusterUnhealthy(lb.name, float64(unhealthy))
}
