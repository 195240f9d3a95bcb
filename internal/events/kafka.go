package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/smallbiznis/subscriptions/internal/config"
	"github.com/smallbiznis/subscriptions/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("events",
	fx.Provide(NewPublisher),
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      log.Named("events.kafka"),
	}
}

// Publish sends evt keyed by its subject so events about one entity stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.SubjectID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(evt.Type)},
			{Key: []byte("correlation_id"), Value: []byte(evt.Metadata["correlation_id"])},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish %s event: %w", evt.Type, err)
	}

	logger.WithContext(ctx, p.log).Debug("event published",
		zap.String("event_type", evt.Type),
		zap.String("event_id", evt.ID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NewSaramaConfig returns the producer settings used for domain events.
func NewSaramaConfig(cfg config.KafkaConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	return saramaConfig
}

// NewPublisher connects a Kafka producer when enabled and falls back to a
// NopPublisher otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Publisher, error) {
	if !cfg.Kafka.Enabled {
		log.Info("kafka disabled, domain events are dropped")
		return NopPublisher{}, nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, NewSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	publisher := NewKafkaPublisher(producer, cfg.Kafka.Topic, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})

	log.Info("kafka publisher ready",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	return publisher, nil
}
