package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rlindsey28/diceroller/config"
	"github.com/rlindsey28/diceroller/kafka"
	"github.com/rlindsey28/diceroller/logger"
	"github.com/rlindsey28/diceroller/telemetry"

	"go.uber.org/zap"
)

func main() {
	// Handle SIGINT gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	conf, err := config.Load(ctx, nil)
	if err != nil {
		log.Panic("failed to process config: ", err)
	}
	zaplog := logger.Get()
	defer func() { _ = zaplog.Sync() }()

	zaplog.Info("loaded config", zap.Any("config", conf))
	// Setup otel
	otelShutdown, err := telemetry.SetupOtelSDK(ctx, conf.Telemetry)
	if err != nil {
		zaplog.Panic("failed to setup otel", zap.Error(err))
	}

	// Handle shutdown
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			zaplog.Error("failed to shutdown otel", zap.Error(err))
		}
	}()

	consumer := kafka.NewConsumer(nil)
	go func() {
		select {
		case <-consumer.Ready():
			zaplog.Info("Sarama consumer up and running!...")
		case <-ctx.Done():
		}
	}()

	if err := kafka.Run(ctx, conf.Kafka, consumer); err != nil {
		zaplog.Error("consumer stopped", zap.Error(err))
		return
	}
	zaplog.Info("shutting down consumer")
}
