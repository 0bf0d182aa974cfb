// Package metrics instruments the storage engine with Prometheus
// metrics, registered through promauto against a private registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Recorder receives engine-level events. A nil-safe no-op
// implementation is available via NoOp for callers that don't want
// Prometheus wired in.
type Recorder interface {
	// RecordOp records the outcome of a Set, Get or Remove call.
	RecordOp(op string, success bool)
	// RecordCompaction records that a compaction cycle completed.
	RecordCompaction()
	// SetKeys reports the current number of live keys.
	SetKeys(n int)
	// SetUncompacted reports the current uncompacted-byte count.
	SetUncompacted(bytes int64)
}

// Metrics is the Recorder implementation backed by Prometheus. The
// zero value is not usable; construct with New.
type Metrics struct {
	registry *prometheus.Registry

	opsTotal         *prometheus.CounterVec
	compactionsTotal prometheus.Counter
	keysTotal        prometheus.Gauge
	uncompactedBytes prometheus.Gauge
}

// New creates the engine's Prometheus metrics against a registry private
// to this instance, so opening more than one store in the same process
// (tests, multiple CLI invocations embedding barrow) never collides on
// metric names the way registering against the global default would.
// Gatherer exposes the registry for callers that want to serve it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		opsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barrow_store_operations_total",
				Help: "Total number of Set, Get and Remove calls.",
			},
			[]string{"operation", "status"},
		),
		compactionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "barrow_store_compactions_total",
				Help: "Total number of completed compaction cycles.",
			},
		),
		keysTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "barrow_store_keys_total",
				Help: "Current number of live keys in the index.",
			},
		),
		uncompactedBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "barrow_store_uncompacted_bytes",
				Help: "Current number of stale bytes eligible for reclamation by compaction.",
			},
		),
	}
}

// Gatherer returns the private registry backing m, for wiring into an
// HTTP handler such as promhttp.HandlerFor.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// RecordOp implements Recorder.
func (m *Metrics) RecordOp(op string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.opsTotal.WithLabelValues(op, status).Inc()
}

// RecordCompaction implements Recorder.
func (m *Metrics) RecordCompaction() {
	m.compactionsTotal.Inc()
}

// SetKeys implements Recorder.
func (m *Metrics) SetKeys(n int) {
	m.keysTotal.Set(float64(n))
}

// SetUncompacted implements Recorder.
func (m *Metrics) SetUncompacted(bytes int64) {
	m.uncompactedBytes.Set(float64(bytes))
}

type noop struct{}

func (noop) RecordOp(string, bool)     {}
func (noop) RecordCompaction()         {}
func (noop) SetKeys(int)               {}
func (noop) SetUncompacted(int64)      {}

// NoOp returns a Recorder that discards every event. It is the
// default used by Open when no recorder is supplied.
func NoOp() Recorder { return noop{} }
