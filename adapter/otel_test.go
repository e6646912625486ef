package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	mnoop "go.opentelemetry.io/otel/metric/noop"
	tnoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/srediag/plugin-lifecycle/pkg/lifecycle"
)

func TestOTelAttach(t *testing.T) {
	o, err := NewOTel(
		mnoop.NewMeterProvider().Meter("test"),
		tnoop.NewTracerProvider().Tracer("test"),
	)
	require.NoError(t, err)

	c, err := lifecycle.New(nil)
	require.NoError(t, err)
	require.NoError(t, o.Attach(c))

	ctx := context.Background()
	require.NoError(t, c.Init(ctx))
	require.Equal(t, lifecycle.PhaseActive, c.CurrentPhase())
	require.NoError(t, c.Destroy(ctx))
	require.Equal(t, lifecycle.PhaseDestroyed, c.CurrentPhase())
}
