// Package metrics exposes the Prometheus metric families shared by the
// load balancer and counter backend: a query counter and a latency
// histogram labeled by (server_name, handler, success), plus a gauge
// tracking unhealthy endpoints per cluster.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	queryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wordgate",
			Name:      "query_total",
			Help:      "Total number of queries handled, labeled by server, handler and success",
		},
		[]string{"server_name", "handler", "success"},
	)

	queryLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wordgate",
			Name:      "query_latency_seconds",
			Help:      "Latency of queries handled, labeled by server, handler and success",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"server_name", "handler", "success"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wordgate",
			Name:      "cache_hits_total",
			Help:      "Total cache hits, labeled by cache tier",
		},
		[]string{"tier"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wordgate",
			Name:      "cache_misses_total",
			Help:      "Total cache misses, labeled by cache tier",
		},
		[]string{"tier"},
	)

	clusterUnhealthy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "wordgate",
			Name:      "unhealthy_endpoints",
			Help:      "Number of unhealthy endpoints in the roster",
		},
		[]string{"cluster"},
	)
)

func Init() {
	prometheus.MustRegister(queryTotal, queryLatency, cacheHits, cacheMisses, clusterUnhealthy)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncCacheHit(tier string) {
	cacheHits.WithLabelValues(tier).Inc()
}

func IncCacheMiss(tier string) {
	cacheMisses.WithLabelValues(tier).Inc()
}

func SetClusterUnhealthy(cluster string, value float64) {
	clusterUnhealthy.WithLabelValues(cluster).Set(value)
}

// QueryGuard is a scope-bound observer for a single handle/health_check
// call: it starts the clock on creation and, on Close, records exactly one
// of the success/failure latency observations plus the matching query
// counter increment. Go has no destructor to hook a "still false on an early
// return" case automatically, so callers must defer Close explicitly -
// mirroring the Drop-based guard the original implementation used, but
// explicit.
type QueryGuard struct {
	serverName string
	handler    string
	start      time.Time
	success    bool
}

func NewQueryGuard(serverName, handler string) *QueryGuard {
	return &QueryGuard{
		serverName: serverName,
		handler:    handler,
		start:      time.Now(),
	}
}

// MarkSuccess flips the guard's outcome to success. Call it on the success
// path only; any early return (error, panic recovery) leaves it false.
func (g *QueryGuard) MarkSuccess() {
	g.success = true
}

// Close records the single latency observation and counter increment for
// whichever outcome was current when it's called. Safe to call via defer
// immediately after construction.
func (g *QueryGuard) Close() {
	success := "false"
	if g.success {
		success = "true"
	}
	elapsed := time.Since(g.start).Seconds()
	queryTotal.WithLabelValues(g.serverName, g.handler, success).Inc()
	queryLatency.WithLabelValues(g.serverName, g.handler, success).Observe(elapsed)
}
