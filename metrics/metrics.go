// Package metrics exposes prometheus instrumentation for the feed clients
// and the response cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec // feed label: trip_updates|vehicle_positions|alerts|siri
	UpstreamErrors   *prometheus.CounterVec
	FetchDuration    prometheus.Histogram

	CacheHits   *prometheus.CounterVec // kind label, same values as feed
	CacheMisses *prometheus.CounterVec
	StaleServes prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtimebus_upstream_requests_total",
			Help: "Total upstream fetches issued, per feed.",
		}, []string{"feed"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtimebus_upstream_errors_total",
			Help: "Total upstream fetch failures, per feed.",
		}, []string{"feed"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "realtimebus_upstream_fetch_seconds",
			Help:    "Upstream fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtimebus_cache_hits_total",
			Help: "Cache reads served within TTL, per kind.",
		}, []string{"kind"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtimebus_cache_misses_total",
			Help: "Cache reads that triggered (or joined) a refresh, per kind.",
		}, []string{"kind"}),
		StaleServes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "realtimebus_cache_stale_serves_total",
			Help: "Expired cache entries served because a fresh fetch failed.",
		}),
	}

	reg.MustRegister(
		c.UpstreamRequests,
		c.UpstreamErrors,
		c.FetchDuration,
		c.CacheHits,
		c.CacheMisses,
		c.StaleServes,
	)
	return c
}

// Handler returns the /metrics endpoint handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// CacheHit implements cache.Recorder.
func (c *Collector) CacheHit(kind string) { c.CacheHits.WithLabelValues(kind).Inc() }

// CacheMiss implements cache.Recorder.
func (c *Collector) CacheMiss(kind string) { c.CacheMisses.WithLabelValues(kind).Inc() }

// StaleServe implements cache.Recorder.
func (c *Collector) StaleServe(kind string) { c.StaleServes.Inc() }
