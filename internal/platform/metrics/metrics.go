// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the API's operational metrics. It satisfies the Metrics
// interfaces declared by the app services.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	bootstraps    prometheus.Counter
	requestMoves  *prometheus.CounterVec
	subscriptionA *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snackclub_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "snackclub_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		bootstraps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snackclub_profile_bootstraps_total",
			Help: "Profiles created on first authenticated contact.",
		}),
		requestMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snackclub_request_transitions_total",
			Help: "Snack request status transitions by target status.",
		}, []string{"status"}),
		subscriptionA: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snackclub_subscription_actions_total",
			Help: "Subscription lifecycle actions by action name.",
		}, []string{"action"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.bootstraps,
		c.requestMoves,
		c.subscriptionA,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) RecordProfileBootstrap() {
	c.bootstraps.Inc()
}

func (c *Collector) RecordRequestTransition(status string) {
	c.requestMoves.WithLabelValues(status).Inc()
}

func (c *Collector) RecordSubscriptionTransition(action string) {
	c.subscriptionA.WithLabelValues(action).Inc()
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
