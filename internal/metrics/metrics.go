// Package metrics holds the Prometheus collectors shared by the storefront:
// upstream API traffic, token refresh outcomes and page renders.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Refresh outcomes
const (
	RefreshSucceeded = "succeeded"
	RefreshFailed    = "failed"
	RefreshSkipped   = "no_refresh_token"
)

type Recorder struct {
	registry        *prometheus.Registry
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	refreshTotal    *prometheus.CounterVec
	pageTotal       *prometheus.CounterVec
	redirectTotal   *prometheus.CounterVec
}

// New registers the storefront collectors on a fresh registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the marketplace API by method and status code.",
		}, []string{"method", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of marketplace API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Access token refresh attempts by outcome.",
		}, []string{"outcome"}),
		pageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_requests_total",
			Help:      "Storefront requests by route pattern and status code.",
		}, []string{"route", "status"}),
		redirectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_redirects_total",
			Help:      "Route guard redirects by target.",
		}, []string{"target"}),
	}
	r.registry.MustRegister(r.upstreamTotal, r.upstreamLatency, r.refreshTotal, r.pageTotal, r.redirectTotal)
	return r
}

// ObserveUpstream records one API round trip. status is 0 for transport failures.
func (r *Recorder) ObserveUpstream(method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamTotal.WithLabelValues(method, statusLabel(status)).Inc()
	r.upstreamLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveRefresh(outcome string) {
	if r == nil {
		return
	}
	r.refreshTotal.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObservePage(route string, status int) {
	if r == nil {
		return
	}
	r.pageTotal.WithLabelValues(route, statusLabel(status)).Inc()
}

func (r *Recorder) ObserveRedirect(target string) {
	if r == nil {
		return
	}
	r.redirectTotal.WithLabelValues(target).Inc()
}

// Handler serves the registry in Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func statusLabel(status int) string {
	if status == 0 {
		return "transport_error"
	}
	return strconv.Itoa(status)
}
