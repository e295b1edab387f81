package gateway

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks gateway calls. A nil *Metrics records nothing
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	segments prometheus.Histogram
}

// NewMetrics creates gateway metrics and registers them with the registerer.
// Collectors that are already registered are reused
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatwidget",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Completion requests by operation, backend and outcome.",
		}, []string{"operation", "backend", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chatwidget",
			Subsystem: "gateway",
			Name:      "backend_duration_seconds",
			Help:      "Time spent waiting on the backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "backend"}),
		segments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chatwidget",
			Subsystem: "gateway",
			Name:      "reply_segments",
			Help:      "Number of segments accumulated per reply.",
			Buckets:   prometheus.LinearBuckets(0, 4, 10),
		}),
	}

	if reg != nil {
		m.requests = register(reg, m.requests)
		m.duration = register(reg, m.duration)
		m.segments = register(reg, m.segments)
	}

	return m
}

// register registers c, returning the existing collector if an equal one is already registered
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) observe(operation, backend, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, backend, outcome).Inc()
	if !started.IsZero() {
		m.duration.WithLabelValues(operation, backend).Observe(time.Since(started).Seconds())
	}
}

func (m *Metrics) observeSegments(n int) {
	if m == nil {
		return
	}
	m.segments.Observe(float64(n))
}
