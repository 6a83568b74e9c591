// Package metrics holds the process-wide Prometheus collectors served on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	anomalies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_analytics_anomalies_total",
		Help: "Complaint records skipped (fully or partially) during aggregation, by kind",
	}, []string{"kind"})

	degradedReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_analytics_degraded_reads_total",
		Help: "Scoped reads that hit their deadline and returned an empty result",
	}, []string{"read"})

	readLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "complaint_analytics_read_duration_seconds",
		Help:    "Latency of scoped ledger and dictionary reads",
		Buckets: prometheus.DefBuckets,
	}, []string{"read"})

	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_analytics_requests_total",
		Help: "Report requests by endpoint and status code",
	}, []string{"endpoint", "code"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_analytics_cache_lookups_total",
		Help: "Dictionary cache lookups by result",
	}, []string{"result"})
)

func RecordAnomaly(kind string) {
	anomalies.WithLabelValues(kind).Inc()
}

func RecordDegradedRead(read string) {
	degradedReads.WithLabelValues(read).Inc()
}

func ObserveRead(read string, started time.Time) {
	readLatency.WithLabelValues(read).Observe(time.Since(started).Seconds())
}

func RecordRequest(endpoint string, code int) {
	requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

// RecordCacheLookup counts a dictionary cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}
