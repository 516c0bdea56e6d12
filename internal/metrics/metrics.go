// Package metrics holds the Prometheus instrumentation shared by the
// mailprobe packages. Collectors are registered once, on first use, so
// that importing a mailprobe package never touches the default registry
// by itself.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all mailprobe collectors.
type Metrics struct {
	MXLookups   prometheus.Counter
	MXCacheHits prometheus.Counter
	MXFailures  prometheus.Counter

	SessionsStarted prometheus.Counter
	SessionFailures *prometheus.CounterVec // by reason
	Reconnects      prometheus.Counter

	RcptProbes *prometheus.CounterVec // by outcome: accepted / rejected

	BatchDuration     prometheus.Histogram
	GroupsInFlight    prometheus.Gauge
	AddressesVerified *prometheus.CounterVec // by status
}

var (
	m    *Metrics
	once sync.Once
)

// Get returns the process-wide metrics, registering them on first use.
func Get() *Metrics {
	once.Do(func() {
		m = &Metrics{
			MXLookups: promauto.NewCounter(prometheus.CounterOpts{
				Name: "mailprobe_mx_lookups_total",
				Help: "MX resolutions performed against the resolver.",
			}),
			MXCacheHits: promauto.NewCounter(prometheus.CounterOpts{
				Name: "mailprobe_mx_cache_hits_total",
				Help: "MX lookups answered from the cache.",
			}),
			MXFailures: promauto.NewCounter(prometheus.CounterOpts{
				Name: "mailprobe_mx_failures_total",
				Help: "MX resolutions that returned an error.",
			}),
			SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
				Name: "mailprobe_smtp_sessions_started_total",
				Help: "SMTP sessions that completed connect, greeting and MAIL FROM.",
			}),
			SessionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "mailprobe_smtp_session_failures_total",
				Help: "SMTP session establishment failures by reason code.",
			}, []string{"reason"}),
			Reconnects: promauto.NewCounter(prometheus.CounterOpts{
				Name: "mailprobe_smtp_reconnects_total",
				Help: "Session restarts triggered by 552/554 replies.",
			}),
			RcptProbes: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "mailprobe_rcpt_probes_total",
				Help: "RCPT probes by outcome.",
			}, []string{"outcome"}),
			BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "mailprobe_batch_duration_seconds",
				Help:    "Wall time of whole verification batches.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			}),
			GroupsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "mailprobe_domain_groups_in_flight",
				Help: "Domain groups currently being probed.",
			}),
			AddressesVerified: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "mailprobe_addresses_verified_total",
				Help: "Verified addresses by final status.",
			}, []string{"status"}),
		}
	})
	return m
}

// StartServer serves /metrics on addr until the listener fails.
// Run it in its own goroutine.
func StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
