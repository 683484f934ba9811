package transport

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	soapRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soap",
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Total SOAP requests sent, by endpoint host and HTTP status.",
		},
		[]string{"host", "status"},
	)
	soapDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "soap",
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "SOAP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host", "status"},
	)
)

// RegisterMetrics registers the transport collectors with the default
// Prometheus registerer.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(soapRequests, soapDuration)
	})
}

// RecordRequest records one exchange. Status 0 means no HTTP response was
// received.
func RecordRequest(host string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	soapRequests.WithLabelValues(host, statusLabel).Inc()
	soapDuration.WithLabelValues(host, statusLabel).Observe(duration.Seconds())
}
