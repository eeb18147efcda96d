package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eisc"

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry       *prometheus.Registry
	operations     *prometheus.CounterVec
	persistFailure *prometheus.CounterVec
	queueDropped   prometheus.Counter
	queueDepth     prometheus.Gauge
	bonusAwarded   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		persistFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "failures_total",
			Help:      "Changes that could not be persisted after all attempts.",
		}, []string{"target"}),
		queueDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "dropped_total",
			Help:      "Changes dropped because the sync queue was full.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "queue_depth",
			Help:      "Changes waiting to be persisted.",
		}),
		bonusAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "monthly_bonus_awarded_total",
			Help:      "Monthly bonuses granted.",
		}),
	}
	m.registry.MustRegister(
		m.operations,
		m.persistFailure,
		m.queueDropped,
		m.queueDepth,
		m.bonusAwarded,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveOperation(operation, outcome string) {
	m.operations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) PersistFailed(target string) {
	m.persistFailure.WithLabelValues(target).Inc()
}

func (m *Metrics) ChangeDropped() {
	m.queueDropped.Inc()
}

func (m *Metrics) QueueDepth(delta float64) {
	m.queueDepth.Add(delta)
}

func (m *Metrics) BonusAwarded() {
	m.bonusAwarded.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
