package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cache metrics
	CacheBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mouse_cache_bytes",
			Help: "Current accounted byte usage of the LRU cache",
		},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mouse_cache_lookups_total",
			Help: "Total number of LRU lookups by result (lost, fault, hit)",
		},
		[]string{"result"},
	)

	CacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mouse_cache_evictions_total",
			Help: "Total number of entries evicted from the LRU cache",
		},
	)

	// KVS metrics
	KVSBatchFlushDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mouse_kvs_batch_flush_duration_seconds",
			Help:    "Time taken to flush a write batch to the intrinsic and extrinsic stores",
			Buckets: prometheus.DefBuckets,
		},
	)

	KVSBatchSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mouse_kvs_batch_size",
			Help: "Number of write queries coalesced into the in-flight batch",
		},
	)

	KVSQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mouse_kvs_queries_total",
			Help: "Total number of KVS queries by kind (fetch, insert, update) and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// RDB metrics
	RDBSessionWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mouse_rdb_session_wait_duration_seconds",
			Help:    "Time a caller waited to acquire the single-writer RDB session",
			Buckets: prometheus.DefBuckets,
		},
	)

	RDBTransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mouse_rdb_transactions_total",
			Help: "Total number of RDB transactions by outcome (committed, rolled_back)",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(CacheBytes)
	prometheus.MustRegister(CacheLookupsTotal)
	prometheus.MustRegister(CacheEvictionsTotal)

	prometheus.MustRegister(KVSBatchFlushDuration)
	prometheus.MustRegister(KVSBatchSize)
	prometheus.MustRegister(KVSQueriesTotal)

	prometheus.MustRegister(RDBSessionWaitDuration)
	prometheus.MustRegister(RDBTransactionsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
