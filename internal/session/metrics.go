package session

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mverett/fabula/pkg/schema"
)

// Metrics holds the prometheus collectors for run lifecycle tracking.
type Metrics struct {
	RunsStarted   prometheus.Counter
	RunsCompleted prometheus.Counter
	RunsStopped   prometheus.Counter
	ActiveRuns    prometheus.Gauge
	Suspensions   *prometheus.CounterVec
	NodesEntered  *prometheus.CounterVec
}

// NewMetrics builds and registers the collectors on reg.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fabula_runs_started_total",
			Help: "Total number of story runs started",
		}),
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fabula_runs_completed_total",
			Help: "Total number of story runs that reached completion",
		}),
		RunsStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fabula_runs_stopped_total",
			Help: "Total number of story runs stopped before completion",
		}),
		ActiveRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fabula_active_runs",
			Help: "Number of runs currently registered",
		}),
		Suspensions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fabula_suspensions_total",
			Help: "Total number of run suspensions by kind",
		}, []string{"kind"}),
		NodesEntered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fabula_nodes_entered_total",
			Help: "Total number of node entries by graph",
		}, []string{"graph"}),
	}
	if reg != nil {
		reg.MustRegister(m.RunsStarted, m.RunsCompleted, m.RunsStopped, m.ActiveRuns, m.Suspensions, m.NodesEntered)
	}
	return m
}

// observe updates collectors from a run event.
func (m *Metrics) observe(ev schema.RunEvent) {
	if m == nil {
		return
	}
	switch ev.Type {
	case schema.EventStoryStarted:
		m.RunsStarted.Inc()
	case schema.EventNodeEntered:
		m.NodesEntered.WithLabelValues(ev.GraphName).Inc()
	case schema.EventStatusChanged:
		to, _ := ev.Payload["to"].(string)
		switch schema.RunStatus(to) {
		case schema.RunStatusWaiting, schema.RunStatusWaitingForCondition, schema.RunStatusWaitingForInput, schema.RunStatusPaused:
			m.Suspensions.WithLabelValues(to).Inc()
		}
	case schema.EventStoryEnded:
		if success, _ := ev.Payload["success"].(bool); success {
			m.RunsCompleted.Inc()
		} else {
			m.RunsStopped.Inc()
		}
	}
}
