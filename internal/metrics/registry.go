// Package metrics provides the Prometheus wrapper every simulation run
// uses to export Stats, adapted from the teacher metrics package's
// Registry (namespace/subsystem-scoped counter/gauge/histogram
// factories). internal/driver creates its per-operation latency
// histogram through a Registry; Stats and the latency table keep their
// own counters and do not record into it.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry wraps a prometheus.Registry with a namespace/subsystem and
// convenience factories for the metric types the simulator needs.
type Registry struct {
	prometheus *prometheus.Registry
	namespace  string
	subsystem  string
}

// Option configures a Registry.
type Option func(*Registry)

// New creates a Registry with the given options.
func New(opts ...Option) *Registry {
	reg := &Registry{prometheus: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// WithNamespace sets a namespace prefix for all metrics on this Registry.
func WithNamespace(ns string) Option {
	return func(r *Registry) { r.namespace = ns }
}

// WithSubsystem sets a subsystem prefix for all metrics on this Registry.
func WithSubsystem(sub string) Option {
	return func(r *Registry) { r.subsystem = sub }
}

// WithGoCollector registers Go runtime metrics (goroutines, GC, memory).
// Useful when a long --sweep run's own overhead needs to be visible
// alongside the simulated workload's metrics.
func WithGoCollector() Option {
	return func(r *Registry) { r.prometheus.MustRegister(collectors.NewGoCollector()) }
}

// PrometheusRegistry returns the underlying *prometheus.Registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheus
}

//nolint:ireturn // prometheus.Counter has no exported concrete type
func (r *Registry) NewCounter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: name, Help: help,
	})
	r.prometheus.MustRegister(c)
	return c
}

func (r *Registry) NewCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: name, Help: help,
	}, labels)
	r.prometheus.MustRegister(c)
	return c
}

//nolint:ireturn // prometheus.Gauge has no exported concrete type
func (r *Registry) NewGauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: name, Help: help,
	})
	r.prometheus.MustRegister(g)
	return g
}

func (r *Registry) NewGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: name, Help: help,
	}, labels)
	r.prometheus.MustRegister(g)
	return g
}

// DefaultLatencyBuckets are skewed toward nanosecond/microsecond-scale
// ranges: every latency this simulator records is a modeled device
// access, never a network round-trip. HDD disk latencies (1-10ms) land
// above the top 1ms bucket.
var DefaultLatencyBuckets = []float64{
	1e-8, 5e-8, 1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3,
}

func (r *Registry) NewHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	if buckets == nil {
		buckets = DefaultLatencyBuckets
	}
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
	r.prometheus.MustRegister(h)
	return h
}

// Handler returns an http.Handler serving the Registry in Prometheus
// exposition format, mounted by internal/adminserver at /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prometheus, promhttp.HandlerOpts{})
}
