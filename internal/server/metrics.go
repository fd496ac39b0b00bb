package server

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meterbus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meterbus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	decodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meterbus",
			Subsystem: "decoder",
			Name:      "telegrams_total",
			Help:      "Decoded telegrams by entry point and outcome.",
		},
		[]string{"entry", "outcome"},
	)
	decodedRecords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "meterbus",
			Subsystem: "decoder",
			Name:      "records_per_telegram",
			Help:      "Number of data records in a decoded telegram.",
			Buckets:   prometheus.LinearBuckets(0, 4, 8),
		},
	)
)

// RegisterMetrics registers the collectors with the default registry. It is
// safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodes, decodedRecords)
	})
}

func recordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func recordDecode(entry string, records int, err error) {
	if err != nil {
		decodes.WithLabelValues(entry, "error").Inc()
		return
	}
	decodes.WithLabelValues(entry, "ok").Inc()
	decodedRecords.Observe(float64(records))
}
