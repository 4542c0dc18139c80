package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MohamedShabanElwa3er/echod/internal/wire"
)

// Metrics tracks server activity with Prometheus collectors. All
// recording methods are safe on a nil receiver so instrumentation can
// be left unconfigured.
type Metrics struct {
	mu         sync.Mutex
	registerer prometheus.Registerer
	registered bool

	connectionsTotal    prometheus.Counter
	connectionsActive   prometheus.Gauge
	messagesTotal       *prometheus.CounterVec
	decodeFailuresTotal prometheus.Counter
	responseBytesTotal  prometheus.Counter
}

// newCounter creates a counter in the standard echod/server namespace.
func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "echod",
		Subsystem: "server",
		Name:      name,
		Help:      help,
	})
}

// NewMetrics creates a metrics collector. A nil registerer falls back
// to the Prometheus default registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		registerer:       registerer,
		connectionsTotal: newCounter("connections_total", "Total number of accepted client connections"),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "echod",
			Subsystem: "server",
			Name:      "connections_active",
			Help:      "Number of currently open client connections",
		}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "echod",
			Subsystem: "server",
			Name:      "messages_total",
			Help:      "Total number of handled request messages",
		}, []string{"kind"}),
		decodeFailuresTotal: newCounter("decode_failures_total", "Total number of request payloads that failed to decode"),
		responseBytesTotal:  newCounter("response_bytes_total", "Total number of response bytes written to clients"),
	}
}

// Register registers the collectors. Safe to call multiple times.
func (m *Metrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		m.connectionsTotal,
		m.connectionsActive,
		m.messagesTotal,
		m.decodeFailuresTotal,
		m.responseBytesTotal,
	}
	for _, c := range collectors {
		if err := m.registerer.Register(c); err != nil {
			return err
		}
	}

	m.registered = true
	return nil
}

// ConnectionAccepted records an accepted connection.
func (m *Metrics) ConnectionAccepted() {
	if m == nil {
		return
	}
	m.connectionsTotal.Inc()
	m.connectionsActive.Inc()
}

// ConnectionClosed records a closed connection.
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connectionsActive.Dec()
}

// MessageHandled records one handled request of the given kind.
func (m *Metrics) MessageHandled(kind wire.Kind) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(kind.String()).Inc()
}

// DecodeFailure records a request payload that failed to decode.
func (m *Metrics) DecodeFailure() {
	if m == nil {
		return
	}
	m.decodeFailuresTotal.Inc()
}

// ResponseBytes records n response bytes written to a client.
func (m *Metrics) ResponseBytes(n int) {
	if m == nil {
		return
	}
	m.responseBytesTotal.Add(float64(n))
}
