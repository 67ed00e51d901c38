// Package messaging implements the message queue side of the service on Kafka.
package messaging

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher is a Kafka-backed implementation of the MessagePublisher interface.
// The topic is chosen per message.
type KafkaPublisher struct {
	writer messageWriter
	logger logger.Logger
}

// NewKafkaPublisher creates a publisher writing to the configured brokers.
func NewKafkaPublisher(cfg config.KafkaConfig, log logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, log)
}

func newKafkaPublisher(writer messageWriter, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: log.WithComponent("KafkaPublisher")}
}

// Publish JSON-encodes payload and writes it to topic under key.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal message", err, logger.String("topic", topic))
		return errors.ErrPublishFailure(topic).WithCause(err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Topic: topic, Key: []byte(key), Value: value}); err != nil {
		p.logger.Error(ctx, "failed to write message to Kafka", err, logger.String("topic", topic))
		return errors.ErrPublishFailure(topic).WithCause(err)
	}

	p.logger.Debug(ctx, "message published", logger.String("topic", topic), logger.Int("bytes", len(value)))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every message. It stands in when Kafka is disabled.
type NoopPublisher struct {
	logger logger.Logger
}

// NewNoopPublisher creates a NoopPublisher.
func NewNoopPublisher(log logger.Logger) *NoopPublisher {
	return &NoopPublisher{logger: log.WithComponent("NoopPublisher")}
}

// Publish logs and discards the message.
func (p *NoopPublisher) Publish(ctx context.Context, topic, key string, _ interface{}) error {
	p.logger.Warn(ctx, "kafka disabled, message dropped", logger.String("topic", topic), logger.String("key", key))
	return nil
}
