package kafka

import (
	"github.com/rlindsey28/diceroller/config"
	"github.com/rlindsey28/diceroller/logger"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

var (
	ProtocolVersion = sarama.V3_6_0_0
)

// NewProducerConfig is the sarama configuration used for roll events.
func NewProducerConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = ProtocolVersion
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	return saramaConfig
}

func NewProducer(conf *config.KafkaConfig) (sarama.SyncProducer, error) {
	log := logger.Get()

	producer, err := sarama.NewSyncProducer(conf.Brokers, NewProducerConfig())
	if err != nil {
		log.Error("failed to create producer", zap.Error(err), zap.Strings("brokers", conf.Brokers))
		return nil, err
	}

	return producer, nil
}
