package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	brokers    []string
	writer     messageWriter
	logger     *zap.Logger
	maxRetries int
	backoff    time.Duration
}

type ProducerOption func(*Producer)

func WithProducerLogger(l *zap.Logger) ProducerOption {
	return func(p *Producer) {
		p.logger = l
	}
}

// WithRetries sets how many times a failed write is attempted in total.
func WithRetries(maxRetries int, backoff time.Duration) ProducerOption {
	return func(p *Producer) {
		if maxRetries > 0 {
			p.maxRetries = maxRetries
		}
		p.backoff = backoff
	}
}

func withWriter(w messageWriter) ProducerOption {
	return func(p *Producer) {
		p.writer = w
	}
}

func NewProducer(brokers []string, opts ...ProducerOption) *Producer {
	p := &Producer{
		brokers:    brokers,
		logger:     zap.NewNop(),
		maxRetries: 1,
		backoff:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		}
	}
	return p
}

// Publish writes payload as JSON, retrying with a linear backoff.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		if lastErr = p.writer.WriteMessages(ctx, message); lastErr == nil {
			p.logger.Debug("published event", zap.String("topic", topic), zap.String("key", key))
			return nil
		}
		p.logger.Warn("publish attempt failed",
			zap.String("topic", topic),
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if attempt == p.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * p.backoff):
		}
	}
	return fmt.Errorf("failed to write message to Kafka after %d attempts: %w", p.maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}
	p.logger.Info("connected to kafka", zap.Int("partitions", len(partitions)))
	return nil
}
