// Package metrics exposes Prometheus instrumentation for feed fetches and
// orbit propagation.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ls_orbits"

// Collector bundles the metrics recorded by feed clients and the propagator
// pipeline. A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	FeedRequests        *prometheus.CounterVec
	FeedDuration        *prometheus.HistogramVec
	Propagations        *prometheus.CounterVec
	PropagationDuration prometheus.Histogram
	ParseErrors         prometheus.Counter
	Targets             prometheus.Gauge
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil. Registering twice against the same registry returns
// the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.FeedRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_requests_total",
		Help:      "Upstream feed requests, labeled by feed and HTTP status code.",
	}, []string{"feed", "code"})); err != nil {
		return nil, err
	}
	if c.FeedDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_request_duration_seconds",
		Help:      "Upstream feed latency in seconds, including retries.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"feed"})); err != nil {
		return nil, err
	}
	if c.Propagations, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "propagations_total",
		Help:      "Orbit propagations, labeled by result.",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if c.PropagationDuration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "propagation_duration_seconds",
		Help:      "Time to sample one orbit and derive its quantities.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
	})); err != nil {
		return nil, err
	}
	if c.ParseErrors, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tle_parse_errors_total",
		Help:      "Element sets rejected by the TLE parser.",
	})); err != nil {
		return nil, err
	}
	if c.Targets, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "targets",
		Help:      "Targets currently loaded.",
	})); err != nil {
		return nil, err
	}

	return c, nil
}

// register adds col to reg, reusing an identical collector that is already
// registered.
func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("metrics: collector already registered with incompatible type: %w", err)
		}
		var zero T
		return zero, err
	}
	return col, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ObserveFeed records one completed feed request. A code of 0 means the
// request failed before a response arrived.
func (c *Collector) ObserveFeed(feed string, code int, d time.Duration) {
	if c == nil {
		return
	}
	label := strconv.Itoa(code)
	if code == 0 {
		label = "error"
	}
	c.FeedRequests.WithLabelValues(feed, label).Inc()
	c.FeedDuration.WithLabelValues(feed).Observe(d.Seconds())
}

// ObservePropagation records one propagation outcome.
func (c *Collector) ObservePropagation(err error, d time.Duration) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.Propagations.WithLabelValues(result).Inc()
	c.PropagationDuration.Observe(d.Seconds())
}

// ParseFailed counts a rejected element set.
func (c *Collector) ParseFailed() {
	if c == nil {
		return
	}
	c.ParseErrors.Inc()
}

// SetTargets sets the loaded target gauge.
func (c *Collector) SetTargets(n int) {
	if c == nil {
		return
	}
	c.Targets.Set(float64(n))
}
