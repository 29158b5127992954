// Package cluster holds the Endpoint type - a handle to one counter
// backend instance reachable over gRPC. The roster of endpoints the load
// balancer routes across is held by package loadbalancer.
package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"wordgate/internal/logging"
	"wordgate/internal/metrics"
	"wordgate/internal/wordcountpb"
)

const (
	connectTimeout = 5 * time.Second
	callTimeout    = 5 * time.Second
	keepaliveTime  = 30 * time.Second
)

// Endpoint is a configured backend instance. Its name, address and weight
// are immutable once built; is_healthy is the only mutable attribute, read
// by many goroutines (strategy picks) and written by exactly one (the
// health-maintenance loop).
type Endpoint struct {
	Name   string
	Addr   string
	Weight int // 0 means "unset"

	healthy atomic.Bool

	conn         *grpc.ClientConn
	counter      wordcountpb.CounterClient
	healthClient healthpb.HealthClient
	logger       logging.Logger
}

// NewEndpoint constructs an endpoint record from config. It is not eligible
// for the roster until Build succeeds.
func NewEndpoint(name, addr string, weight int, logger logging.Logger) *Endpoint {
	return &Endpoint{
		Name:   name,
		Addr:   addr,
		Weight: weight,
		logger: logger,
	}
}

// Build establishes the single multiplexed RPC channel this endpoint will
// reuse for the rest of the process lifetime. Must be called exactly once,
// before the endpoint is placed in a roster. extraOpts is appended after the
// standard dial options - production callers pass none; tests use it to
// inject a bufconn dialer.
func (e *Endpoint) Build(ctx context.Context, extraOpts ...grpc.DialOption) error {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:    keepaliveTime,
			Timeout: connectTimeout,
		}),
	}
	opts = append(opts, extraOpts...)

	conn, err := grpc.DialContext(dialCtx, e.Addr, opts...)
	if err != nil {
		return fmt.Errorf("connect endpoint %s (%s): %w", e.Name, e.Addr, err)
	}

	e.conn = conn
	e.counter = wordcountpb.NewCounterClient(conn)
	e.healthClient = healthpb.NewHealthClient(conn)
	return nil
}

// Handle decodes reqBytes as a WordCountRequest, forwards it over the gRPC
// channel, and encodes the response back to JSON.
func (e *Endpoint) Handle(ctx context.Context, reqBytes []byte) ([]byte, error) {
	guard := metrics.NewQueryGuard(e.Name, "WordCount")
	defer guard.Close()

	if e.counter == nil {
		return nil, fmt.Errorf("endpoint %s: client not initialized", e.Name)
	}

	var req wordcountpb.WordCountRequest
	if err := json.Unmarshal(reqBytes, &req); err != nil {
		return nil, fmt.Errorf("endpoint %s: parse failure: %w", e.Name, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := e.counter.Count(callCtx, &req)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s: rpc failure: %w", e.Name, err)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s: encode response: %w", e.Name, err)
	}

	guard.MarkSuccess()
	return out, nil
}

// HealthCheck issues a health RPC and updates is_healthy to true iff the
// response status is SERVING. It never returns an error: transport
// failures are logged and the endpoint is marked unhealthy.
func (e *Endpoint) HealthCheck(ctx context.Context) {
	guard := metrics.NewQueryGuard(e.Name, "HealthCheck")
	defer guard.Close()

	if e.healthClient == nil {
		e.setHealthy(false)
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := e.healthClient.Check(callCtx, &healthpb.HealthCheckRequest{})
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("health check transport failure", "endpoint", e.Name, "addr", e.Addr, "err", err)
		}
		e.setHealthy(false)
		return
	}

	guard.MarkSuccess()
	e.setHealthy(resp.GetStatus() == healthpb.HealthCheckResponse_SERVING)
}

func (e *Endpoint) setHealthy(healthy bool) {
	e.healthy.Store(healthy)
	if !healthy && e.logger != nil {
		e.logger.Warn("endpoint marked unhealthy", "endpoint", e.Name, "addr", e.Addr)
	}
}

// HealthReport is a non-blocking read of the endpoint's current health
// flag.
func (e *Endpoint) HealthReport() bool {
	return e.healthy.Load()
}

// Close tears down the endpoint's RPC channel.
func (e *Endpoint) Close() error {
	if e.conn == nil {
		return nil
	}
	return e.conn.Close()
}
