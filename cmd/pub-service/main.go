package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rlindsey28/diceroller/config"
	"github.com/rlindsey28/diceroller/health"
	"github.com/rlindsey28/diceroller/kafka"
	"github.com/rlindsey28/diceroller/logger"
	"github.com/rlindsey28/diceroller/rolldice"
	"github.com/rlindsey28/diceroller/telemetry"

	"github.com/gorilla/mux"
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

	// Setup otel
	otelShutdown, err := telemetry.SetupOtelSDK(ctx, conf.Telemetry)
	if err != nil {
		zaplog.Panic("failed to setup otel", zap.Error(err))
	}
	// Handle otel shutdown
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			zaplog.Error("failed to shutdown otel", zap.Error(err))
		}
	}()

	newRoller, err := rolldice.NewRollerFunc(conf.Dice.Source)
	if err != nil {
		zaplog.Panic("invalid dice source", zap.Error(err))
	}
	rollHandler := &rolldice.Handler{
		Limits:    rolldice.Limits{MaxDice: conf.Dice.MaxDice, MaxSides: conf.Dice.MaxSides},
		NewRoller: newRoller,
	}
	rollHandler.Metrics.InitMetrics()

	if conf.Kafka.Enabled {
		producer, err := kafka.NewProducer(conf.Kafka)
		if err != nil {
			zaplog.Panic("failed to create kafka producer", zap.Error(err))
		}
		publisher := kafka.NewPublisher(conf.Kafka.Topic, producer)
		defer func() {
			if err := publisher.Close(); err != nil {
				zaplog.Error("failed to close kafka producer", zap.Error(err))
			}
		}()
		rollHandler.Publisher = publisher
	}

	// Setup router
	router := mux.NewRouter()
	router.Use(logger.Middleware)

	healthHandler := health.Handler{}
	router.HandleFunc("/health", healthHandler.HealthCheck).Methods("GET")
	router.HandleFunc("/rolldice", rollHandler.RollDice).Methods("POST")

	zaplog.Debug("starting server", zap.String("service-name", conf.ServiceName), zap.String("addr", conf.Addr()))
	srv := &http.Server{
		Addr:         conf.Addr(),
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
		ReadTimeout:  time.Second,
		WriteTimeout: 10 * time.Second,
		Handler:      router,
	}

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal
	select {
	case err := <-srvErr:
		if !errors.Is(err, http.ErrServerClosed) {
			zaplog.Error("server error", zap.Error(err))
		}
		return
	case <-ctx.Done():
		zaplog.Info("shutting down server")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zaplog.Error("failed to shutdown server", zap.Error(err))
	}
}
