package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type AppConfig struct {
	ServiceName string           `env:"SERVICE_NAME, default=dice-service"`
	Host        string           `env:"HOST"`
	Port        string           `env:"PORT, default=8080"`
	LogLevel    string           `env:"LOG_LEVEL, default=info"`
	Dice        *DiceConfig      `env:", prefix=DICE_"`
	Kafka       *KafkaConfig     `env:", prefix=KAFKA_"`
	Telemetry   *TelemetryConfig `env:", prefix=OTEL_"`
}

// DiceConfig bounds what the HTTP service will roll in a single request.
type DiceConfig struct {
	MaxDice  int    `env:"MAX_DICE, default=100"`
	MaxSides int    `env:"MAX_SIDES, default=1000"`
	Source   string `env:"SOURCE, default=pcg"`
}

type TelemetryConfig struct {
	ServiceNamespace string `env:"SERVICE_NAMESPACE, default=dice"`
	ServiceName      string `env:"SERVICE_NAME, default=dice-service"`
	ExporterEndpoint string `env:"EXPORTER_OTLP_ENDPOINT"`
	Insecure         bool   `env:"EXPORTER_OTLP_INSECURE, default=true"`
}

type KafkaConfig struct {
	Enabled       bool     `env:"ENABLED, default=true"`
	Brokers       []string `env:"BROKERS, delimiter=;, default=localhost:9092"`
	Topic         string   `env:"TOPIC, default=dice-rolls"`
	ConsumerGroup string   `env:"CONSUMER_GROUP, default=dice-consumers"`
}

// Addr is the listen address for the HTTP server.
func (c AppConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Load populates an AppConfig from lookuper, or from the process
// environment when lookuper is nil.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (AppConfig, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	var conf AppConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &conf,
		Lookuper: lookuper,
	}); err != nil {
		return AppConfig{}, err
	}
	return conf, nil
}
