package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/rlindsey28/diceroller/logger"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const name = "kafka"

var (
	tracer = otel.Tracer(name)
)

type Publisher struct {
	topicName string
	producer  sarama.SyncProducer
}

func NewPublisher(topicName string, producer sarama.SyncProducer) *Publisher {
	return &Publisher{
		topicName: topicName,
		producer:  producer,
	}
}

func (p *Publisher) Publish(ctx context.Context, key string, message []byte) error {
	log := logger.FromCtx(ctx)

	msg := &sarama.ProducerMessage{
		Topic: p.topicName,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(message),
	}

	// Inject tracing info into message
	span := createProducerSpan(ctx, msg)
	defer span.End()

	startTime := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	span.SetAttributes(
		attribute.Bool("messaging.kafka.producer.success", err == nil),
		attribute.Int("messaging.kafka.producer.duration_ms", int(time.Since(startTime).Milliseconds())),
	)
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		span.RecordError(err)
		log.Error("failed to publish event to kafka", zap.Error(err))
		return fmt.Errorf("publish to %s: %w", p.topicName, err)
	}

	span.SetAttributes(
		semconv.MessagingKafkaDestinationPartition(int(partition)),
		semconv.MessagingKafkaMessageOffset(int(offset)),
	)
	log.Info("Successfully wrote message.",
		zap.String("topic", p.topicName),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

func createProducerSpan(ctx context.Context, msg *sarama.ProducerMessage) trace.Span {
	spanContext, span := tracer.Start(
		ctx,
		fmt.Sprintf("%s publish", msg.Topic),
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.PeerService("kafka"),
			semconv.NetworkTransportTCP,
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(msg.Topic),
			semconv.MessagingOperationPublish,
		),
	)

	carrier := propagation.MapCarrier{}
	propagator := otel.GetTextMapPropagator()
	propagator.Inject(spanContext, carrier)

	for key, value := range carrier {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}

	return span
}
