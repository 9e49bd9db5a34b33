// Package metrics holds the prometheus collectors of the service and the
// /metrics exposition handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orders"

// Sweep tick outcomes.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

// ObserveRequest records one served request. route is the registered path
// template, not the raw URL, to keep label cardinality bounded.
func (m *ServerMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(method, route).Observe(float64(elapsed.Milliseconds()))
}

type SweepMetrics struct {
	Transitions *prometheus.CounterVec
	Failures    prometheus.Counter
	Duration    prometheus.Histogram
	Ticks       *prometheus.CounterVec
}

// ObserveTick records the summary of a finished sweep tick.
func (m *SweepMetrics) ObserveTick(processing, completed, failed int, elapsed time.Duration, err error) {
	m.Transitions.WithLabelValues("processing").Add(float64(processing))
	m.Transitions.WithLabelValues("completed").Add(float64(completed))
	m.Failures.Add(float64(failed))
	m.Duration.Observe(elapsed.Seconds())

	switch {
	case err != nil:
		m.Ticks.WithLabelValues(OutcomeError).Inc()
	case failed > 0:
		m.Ticks.WithLabelValues(OutcomePartial).Inc()
	default:
		m.Ticks.WithLabelValues(OutcomeOK).Inc()
	}
}

// ObserveSkippedTick records a tick dropped because the previous one was still running.
func (m *SweepMetrics) ObserveSkippedTick() {
	m.Ticks.WithLabelValues(OutcomeSkipped).Inc()
}

// Metrics owns a private registry so that tests can build as many instances
// as they need without colliding on the global one.
type Metrics struct {
	Server *ServerMetrics
	Sweep  *SweepMetrics

	registry *prometheus.Registry
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	server := &ServerMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "route"}),
	}

	sweep := &SweepMetrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "transitions_total",
			Help:      "Orders advanced by the sweeper, by target status.",
		}, []string{"status"}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "failures_total",
			Help:      "Orders the sweeper skipped because saving them failed.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "tick_duration_seconds",
			Help:      "Duration of a sweep tick.",
			Buckets:   prometheus.DefBuckets,
		}),
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "ticks_total",
			Help:      "Sweep ticks by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		server.Requests, server.LatencyMS,
		sweep.Transitions, sweep.Failures, sweep.Duration, sweep.Ticks,
	)

	return &Metrics{Server: server, Sweep: sweep, registry: registry}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
