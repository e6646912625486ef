package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/plugin-lifecycle/pkg/events"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestCollectorCountsPhaseTransitions(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.OnEvent(events.PhaseChange{Old: "UNINITIALIZED", New: "INITIALIZING"})
	c.OnEvent(events.PhaseChange{Old: "UNINITIALIZED", New: "INITIALIZING"})

	assert.Equal(t, float64(2), counterValue(t, c.transitions.WithLabelValues("UNINITIALIZED", "INITIALIZING")))
	assert.Equal(t, float64(0), counterValue(t, c.transitions.WithLabelValues("READY", "ACTIVE")))
}

func TestCollectorCountsComponentOutcomes(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.OnEvent(events.ComponentEvent{Name: "a", Op: events.OpInit, Duration: 10 * time.Millisecond})
	c.OnEvent(events.ComponentEvent{Name: "b", Op: events.OpInit, Duration: time.Millisecond, Err: errors.New("boom")})

	assert.Equal(t, float64(1), counterValue(t, c.componentOps.WithLabelValues(events.OpInit, "success")))
	assert.Equal(t, float64(1), counterValue(t, c.componentOps.WithLabelValues(events.OpInit, "failure")))
}

func TestCollectorCountsErrors(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.OnEvent(events.ErrorEvent{Err: errors.New("boom"), Context: "init", Phase: "ERROR"})
	c.OnEvent("unrelated payload")

	assert.Equal(t, float64(1), counterValue(t, c.errors))
}

func TestCollectorObserverContract(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	assert.Equal(t, "prometheus", c.ID())
	assert.Equal(t, ObserverPriority, c.Priority())
}
