package telemetry

import (
	"context"
	"testing"

	"github.com/rlindsey28/diceroller/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestSetupOtelSDKStdout(t *testing.T) {
	shutdown, err := SetupOtelSDK(context.Background(), &config.TelemetryConfig{
		ServiceNamespace: "dice",
		ServiceName:      "dice-service-test",
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	counter, err := otel.Meter("test").Int64Counter("dice.test")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.NoError(t, shutdown(context.Background()))
	assert.NoError(t, shutdown(context.Background()), "second shutdown is a no-op")
}

func TestPropagatorFields(t *testing.T) {
	fields := newPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")

	carrier := propagation.MapCarrier{}
	newPropagator().Inject(context.Background(), carrier)
	assert.Empty(t, carrier, "nothing to inject without an active span")
}
