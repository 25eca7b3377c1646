// Package metrics owns the prometheus collectors the api exposes on /metrics
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "memorial"

// Metrics groups every collector the service records into
// a nil *Metrics is valid and records nothing
type Metrics struct {
	gatherer prometheus.Gatherer

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	submits    *prometheus.CounterVec
	pushes     *prometheus.CounterVec
	viewsLive  prometheus.Gauge
	candlesLit prometheus.Counter
	memories   prometheus.Counter
}

// New builds the collectors and registers them on reg
// reg is usually a fresh prometheus.NewRegistry in tests
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of handled HTTP requests.",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request durations in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"route", "method"},
		),
		submits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wish_submits_total",
				Help:      "Wish submissions by path and outcome.",
			},
			[]string{"path", "outcome"},
		),
		pushes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "realtime_payloads_total",
				Help:      "Change feed payloads by channel and outcome.",
			},
			[]string{"channel", "outcome"},
		),
		viewsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sky_views_live",
			Help:      "Number of mounted live sky views.",
		}),
		candlesLit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candles_lit_total",
			Help:      "Candles left on the wall of light.",
		}),
		memories: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memories_uploaded_total",
			Help:      "Memories added to the memory tree.",
		}),
	}
	reg.MustRegister(
		m.requestsTotal, m.requestDuration,
		m.submits, m.pushes, m.viewsLive, m.candlesLit, m.memories,
	)
	return m
}

var (
	defaultOnce sync.Once
	defaultM    *Metrics
)

// Default returns the process wide collectors with go and process collectors attached
func Default() *Metrics {
	defaultOnce.Do(func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		defaultM = New(reg)
	})
	return defaultM
}

// Handler serves the text exposition of the registry
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Submit records a wish submission outcome, path is "view" or "direct"
func (m *Metrics) Submit(path, outcome string) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(path, outcome).Inc()
}

// Payload records one change feed payload outcome
func (m *Metrics) Payload(channel, outcome string) {
	if m == nil {
		return
	}
	m.pushes.WithLabelValues(channel, outcome).Inc()
}

// ViewOpened bumps the live view gauge
func (m *Metrics) ViewOpened() {
	if m == nil {
		return
	}
	m.viewsLive.Inc()
}

// ViewClosed drops the live view gauge
func (m *Metrics) ViewClosed() {
	if m == nil {
		return
	}
	m.viewsLive.Dec()
}

// CandleLit counts a new candle
func (m *Metrics) CandleLit() {
	if m == nil {
		return
	}
	m.candlesLit.Inc()
}

// MemoryUploaded counts a new memory
func (m *Metrics) MemoryUploaded() {
	if m == nil {
		return
	}
	m.memories.Inc()
}
