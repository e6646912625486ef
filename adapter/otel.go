// Package adapter provides integrations between the lifecycle coordinator
// and external observability systems.
package adapter

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/srediag/plugin-lifecycle/pkg/events"
	"github.com/srediag/plugin-lifecycle/pkg/lifecycle"
)

// OTel instruments a coordinator with OpenTelemetry spans around the init
// and destroy sequences and a counter of phase transitions.
type OTel struct {
	meter  metric.Meter
	tracer trace.Tracer

	transitions metric.Int64Counter

	mu          sync.Mutex
	initSpan    trace.Span
	destroySpan trace.Span
}

// NewOTel builds the instrumentation from a meter and a tracer.
func NewOTel(meter metric.Meter, tracer trace.Tracer) (*OTel, error) {
	counter, err := meter.Int64Counter("lifecycle.phase.transitions",
		metric.WithDescription("Number of coordinator phase transitions."))
	if err != nil {
		return nil, err
	}
	return &OTel{meter: meter, tracer: tracer, transitions: counter}, nil
}

// Attach wires the instrumentation into the coordinator: hooks open and
// close spans, an observer counts transitions.
func (o *OTel) Attach(c *lifecycle.Coordinator) error {
	if err := c.AddHookPriority(lifecycle.BeforeInit, o.startInitSpan, 0); err != nil {
		return err
	}
	if err := c.AddHookPriority(lifecycle.AfterReady, o.endInitSpan, 1000); err != nil {
		return err
	}
	if err := c.AddHookPriority(lifecycle.BeforeDestroy, o.startDestroySpan, 0); err != nil {
		return err
	}
	if err := c.AddHookPriority(lifecycle.AfterDestroy, o.endDestroySpan, 1000); err != nil {
		return err
	}
	return c.Dispatcher().Subscribe(o)
}

func (o *OTel) startInitSpan(ctx context.Context, _ lifecycle.HookEvent) error {
	_, span := o.tracer.Start(ctx, "lifecycle.init")
	o.mu.Lock()
	o.initSpan = span
	o.mu.Unlock()
	return nil
}

func (o *OTel) endInitSpan(context.Context, lifecycle.HookEvent) error {
	o.mu.Lock()
	span := o.initSpan
	o.initSpan = nil
	o.mu.Unlock()
	if span != nil {
		span.End()
	}
	return nil
}

func (o *OTel) startDestroySpan(ctx context.Context, _ lifecycle.HookEvent) error {
	_, span := o.tracer.Start(ctx, "lifecycle.destroy")
	o.mu.Lock()
	o.destroySpan = span
	o.mu.Unlock()
	return nil
}

func (o *OTel) endDestroySpan(context.Context, lifecycle.HookEvent) error {
	o.mu.Lock()
	span := o.destroySpan
	o.destroySpan = nil
	o.mu.Unlock()
	if span != nil {
		span.End()
	}
	return nil
}

// ID implements events.Observer.
func (o *OTel) ID() string { return "otel" }

// Priority implements events.Observer.
func (o *OTel) Priority() int { return 300 }

// OnEvent implements events.Observer.
func (o *OTel) OnEvent(ev events.Event) {
	if _, ok := ev.(events.PhaseChange); ok {
		o.transitions.Add(context.Background(), 1)
	}
}
