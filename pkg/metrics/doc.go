/*
Package metrics provides Prometheus metrics collection and exposition for Mouse.

The metrics package defines and registers all of Mouse's metrics using the
Prometheus client library, giving observability into cache occupancy and hit
rate, KVS batch-flush behavior, and RDB session contention. Metrics are
exposed via an HTTP endpoint for scraping by Prometheus servers.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Metric Categories                  │          │
	│  │                                              │          │
	│  │  Cache: bytes, lookups, evictions           │          │
	│  │  KVS:   batch flush duration, batch size    │          │
	│  │  RDB:   session wait, transaction outcomes  │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint              │          │
	│  │  - Path: /metrics                           │          │
	│  │  - Format: Prometheus text exposition       │          │
	│  │  - Handler: promhttp.Handler()              │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Metrics Catalog

Cache Metrics:

mouse_cache_bytes:
  - Type: Gauge
  - Description: Current accounted byte usage of the LRU cache, sampled
    periodically from cache.Usage() by Collector.
  - Example: mouse_cache_bytes 8388608

mouse_cache_lookups_total{result}:
  - Type: Counter
  - Description: Total LRU lookups by result.
  - Labels: result = "lost" (no entry), "fault" (NotFound sentinel),
    "hit" (real Acid returned)
  - Example: mouse_cache_lookups_total{result="hit"} 10423

mouse_cache_evictions_total:
  - Type: Counter
  - Description: Total entries evicted from the LRU cache to satisfy the
    soft byte limit.

KVS Metrics:

mouse_kvs_batch_flush_duration_seconds:
  - Type: Histogram
  - Description: Time to flush one write batch, extrinsic store before
    intrinsic store.

mouse_kvs_batch_size:
  - Type: Gauge
  - Description: Number of write queries coalesced into the batch
    currently accumulating before flush.

mouse_kvs_queries_total{kind, outcome}:
  - Type: Counter
  - Description: Total KVS queries.
  - Labels: kind = "fetch", "insert", "update"; outcome = "ok", "error",
    or "not_found" (fetch only)

RDB Metrics:

mouse_rdb_session_wait_duration_seconds:
  - Type: Histogram
  - Description: Time a caller waited to acquire the single-writer RDB
    session before beginning its transaction.

mouse_rdb_transactions_total{outcome}:
  - Type: Counter
  - Description: Total RDB transactions.
  - Labels: outcome = "committed", "rolled_back"

# Usage

	import "github.com/mousechain/mouse/pkg/metrics"

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	metrics.CacheEvictionsTotal.Inc()

	timer := metrics.NewTimer()
	// ... flush batch ...
	timer.ObserveDuration(metrics.KVSBatchFlushDuration)

	http.Handle("/metrics", metrics.Handler())

# Integration Points

This package integrates with:

  - pkg/cache: records lookup results and evictions inline; Collector
    samples cache.Usage() into mouse_cache_bytes on a ticker.
  - pkg/kvs: records batch flush duration, batch size, and per-query
    outcomes.
  - pkg/rdb: records session wait duration and transaction outcomes.
  - Prometheus: scrapes /metrics.

# Design Patterns

Package Init Registration:
  - All metrics registered in init(). MustRegister panics on duplicate
    registration, so metrics are available before main() runs.

Label Discipline:
  - Labels are bounded, closed sets ("result", "outcome", "kind") --
    never Ids or timestamps.

Timer Pattern:
  - Create a Timer at operation start, call ObserveDuration or
    ObserveDurationVec when the operation completes.

# See Also

  - Prometheus documentation: https://prometheus.io/docs/
  - Prometheus client library: https://github.com/prometheus/client_golang
*/
package metrics
