package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rlindsey28/diceroller/config"
	"github.com/rlindsey28/diceroller/logger"
	"github.com/rlindsey28/diceroller/rolldice"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RollFunc is called for every roll event decoded from the topic.
type RollFunc func(ctx context.Context, roll rolldice.Response)

type Consumer struct {
	ready  chan bool
	onRoll RollFunc
	events metric.Int64Counter
}

// NewConsumer returns a consumer group handler. A nil onRoll only logs.
func NewConsumer(onRoll RollFunc) *Consumer {
	log := logger.Get()
	events, err := otel.Meter(name).Int64Counter("dice.events",
		metric.WithDescription("The number of roll events consumed"),
		metric.WithUnit("{event}"))
	if err != nil {
		log.Error("failed to create counter", zap.Error(err))
	}
	return &Consumer{
		ready:  make(chan bool),
		onRoll: onRoll,
		events: events,
	}
}

// Ready is closed once the first session has been set up.
func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

// Run consumes the configured topic until ctx is cancelled or the group
// is closed.
func Run(ctx context.Context, conf *config.KafkaConfig, consumer *Consumer) error {
	log := logger.Get()
	log.Info("Starting a new Sarama consumer", zap.String("group", conf.ConsumerGroup), zap.String("topic", conf.Topic))

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = ProtocolVersion
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(conf.Brokers, conf.ConsumerGroup, saramaConfig)
	if err != nil {
		return fmt.Errorf("creating consumer group client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error("Error closing client", zap.Error(err))
		}
	}()

	for {
		// `Consume` should be called inside an infinite loop, when a
		// server-side rebalance happens, the consumer session will need to be
		// recreated to get the new claims
		if err := client.Consume(ctx, []string{conf.Topic}, consumer); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("consuming %s: %w", conf.Topic, err)
		}
		// check if context was cancelled, signaling that the consumer should stop
		if ctx.Err() != nil {
			log.Info("terminating: context cancelled")
			return nil
		}
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
// Once the Messages() channel is closed, the Handler must finish its processing
// loop and exit.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log := logger.Get()
	// NOTE:
	// Do not move the code below to a goroutine.
	// The `ConsumeClaim` itself is called within a goroutine, see:
	// https://github.com/IBM/sarama/blob/main/consumer_group.go#L27-L29
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				log.Info("message channel was closed")
				return nil
			}
			// Undecodable events are logged and skipped, never redelivered.
			_ = consumer.handleMessage(session.Context(), message)
			session.MarkMessage(message, "")
		// Should return when `session.Context()` is done.
		// If not, will raise `ErrRebalanceInProgress` or `read tcp <ip>:<port>: i/o timeout` when kafka rebalance. see:
		// https://github.com/IBM/sarama/issues/1192
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	ctx, span := createConsumerSpan(ctx, message)
	defer span.End()
	log := logger.FromCtx(ctx)

	log.Debug("Message claimed", zap.ByteString("value", message.Value), zap.Time("timestamp", message.Timestamp))

	var roll rolldice.Response
	if err := json.Unmarshal(message.Value, &roll); err != nil {
		log.Error("Error unmarshalling message", zap.Error(err), zap.Int64("offset", message.Offset))
		span.SetStatus(otelcodes.Error, "invalid roll event")
		span.RecordError(err)
		return err
	}

	if consumer.events != nil {
		consumer.events.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(roll.Mode))))
	}
	log.Info("Dice roll", zap.String("mode", string(roll.Mode)), zap.String("display", roll.Display), zap.Time("rolled_at", roll.RolledAt))
	if consumer.onRoll != nil {
		consumer.onRoll(ctx, roll)
	}
	return nil
}

func createConsumerSpan(ctx context.Context, message *sarama.ConsumerMessage) (context.Context, trace.Span) {
	carrier := propagation.MapCarrier{}
	for _, h := range message.Headers {
		if h != nil {
			carrier[string(h.Key)] = string(h.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	return tracer.Start(
		ctx,
		fmt.Sprintf("%s receive", message.Topic),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(message.Topic),
			semconv.MessagingOperationReceive,
			semconv.MessagingKafkaDestinationPartition(int(message.Partition)),
			semconv.MessagingKafkaMessageOffset(int(message.Offset)),
		),
	)
}
