package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/rlindsey28/diceroller/rolldice"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage(t *testing.T) {
	var got []rolldice.Response
	consumer := NewConsumer(func(_ context.Context, roll rolldice.Response) {
		got = append(got, roll)
	})

	err := consumer.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic:     "dice-rolls",
		Value:     []byte(`{"mode":"disadvantage","sides":20,"value":12,"display":"d20 with disadvantage: 12","rolled_at":"2024-06-01T12:00:00Z"}`),
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, rolldice.ModeDisadvantage, got[0].Mode)
	require.NotNil(t, got[0].Value)
	assert.Equal(t, 12, *got[0].Value)
	assert.Equal(t, "d20 with disadvantage: 12", got[0].Display)
}

func TestHandleMessageInvalid(t *testing.T) {
	called := false
	consumer := NewConsumer(func(context.Context, rolldice.Response) { called = true })

	err := consumer.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic: "dice-rolls",
		Value: []byte("not json"),
		Headers: []*sarama.RecordHeader{
			{Key: []byte("traceparent"), Value: []byte("garbage")},
		},
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestSetupClosesReadyOnce(t *testing.T) {
	consumer := NewConsumer(nil)

	require.NoError(t, consumer.Setup(nil))
	require.NoError(t, consumer.Setup(nil), "a second session must not panic")

	select {
	case <-consumer.Ready():
	default:
		t.Fatal("ready channel should be closed")
	}
	assert.NoError(t, consumer.Cleanup(nil))
}
