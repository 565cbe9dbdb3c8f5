package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "dice-rolls" {
			return fmt.Errorf("unexpected topic %q", msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "advantage" {
			return fmt.Errorf("unexpected key %q", key)
		}
		return nil
	})

	publisher := NewPublisher("dice-rolls", producer)
	err := publisher.Publish(context.Background(), "advantage", []byte(`{"mode":"advantage"}`))
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestPublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewPublisher("dice-rolls", producer)
	err := publisher.Publish(context.Background(), "normal", []byte(`{}`))
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers), "got %v", err)
	require.NoError(t, publisher.Close())
}

func TestPublishInjectsTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx, parent := tp.Tracer("test").Start(context.Background(), "parent")
	defer parent.End()

	msg := &sarama.ProducerMessage{Topic: "dice-rolls"}
	span := createProducerSpan(ctx, msg)
	span.End()

	var found bool
	for _, h := range msg.Headers {
		if string(h.Key) == "traceparent" {
			found = true
			assert.Contains(t, string(h.Value), parent.SpanContext().TraceID().String())
		}
	}
	assert.True(t, found, "traceparent header not injected: %v", msg.Headers)
}
