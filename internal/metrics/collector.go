// Package metrics provides in-process Prometheus metrics for turn and
// node execution. This package is internal and not part of the public
// API surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records chatflow execution metrics. A nil *Collector is a
// valid no-op so callers can leave metrics unconfigured.
type Collector struct {
	turnsTotal   *prometheus.CounterVec
	turnDuration *prometheus.HistogramVec
	nodesTotal   *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
}

// NewCollector registers the chatflow metrics on the given registerer.
// Pass prometheus.DefaultRegisterer for the process-wide registry, or a
// fresh registry in tests.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		turnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Total number of executed turns by terminal state",
			},
			[]string{"state"},
		),
		turnDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "turn_duration_seconds",
				Help:      "Turn execution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"state"},
		),
		nodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_executions_total",
				Help:      "Total number of node executions by kind and status",
			},
			[]string{"kind", "status"},
		),
		nodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "node_duration_seconds",
				Help:      "Node execution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

// ObserveTurn records one completed turn.
func (c *Collector) ObserveTurn(state string, d time.Duration) {
	if c == nil {
		return
	}
	c.turnsTotal.WithLabelValues(state).Inc()
	c.turnDuration.WithLabelValues(state).Observe(d.Seconds())
}

// ObserveNode records one node execution.
func (c *Collector) ObserveNode(kind, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.nodesTotal.WithLabelValues(kind, status).Inc()
	c.nodeDuration.WithLabelValues(kind).Observe(d.Seconds())
}
