// Package metrics collects Prometheus metrics from the lifecycle broadcast
// channel.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srediag/plugin-lifecycle/pkg/events"
)

// ObserverPriority places the collector behind functional observers.
const ObserverPriority = 100

// Collector subscribes to a lifecycle event dispatcher and exports counters
// and durations for phase transitions and component operations.
type Collector struct {
	transitions  *prometheus.CounterVec
	componentOps *prometheus.CounterVec
	opDuration   *prometheus.HistogramVec
	errors       prometheus.Counter
}

// NewCollector creates and registers the collector's metrics. A nil
// registerer uses the default one.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecycle_phase_transitions_total",
			Help: "Total number of coordinator phase transitions.",
		}, []string{"from", "to"}),
		componentOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecycle_component_operations_total",
			Help: "Total number of component operations by outcome.",
		}, []string{"op", "outcome"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lifecycle_component_operation_seconds",
			Help:    "Duration of component operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_errors_total",
			Help: "Total number of errors reaching the coordinator's error funnel.",
		}),
	}
	reg.MustRegister(c.transitions, c.componentOps, c.opDuration, c.errors)
	return c
}

// ID implements events.Observer.
func (c *Collector) ID() string { return "prometheus" }

// Priority implements events.Observer.
func (c *Collector) Priority() int { return ObserverPriority }

// OnEvent implements events.Observer.
func (c *Collector) OnEvent(ev events.Event) {
	switch e := ev.(type) {
	case events.PhaseChange:
		c.transitions.WithLabelValues(e.Old, e.New).Inc()
	case events.ComponentEvent:
		outcome := "success"
		if e.Err != nil {
			outcome = "failure"
		}
		c.componentOps.WithLabelValues(e.Op, outcome).Inc()
		c.opDuration.WithLabelValues(e.Op).Observe(e.Duration.Seconds())
	case events.ErrorEvent:
		c.errors.Inc()
	}
}
