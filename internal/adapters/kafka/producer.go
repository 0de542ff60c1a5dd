package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

// ProducerConfig holds connection settings for the event producer
type ProducerConfig struct {
	Brokers      []string
	WriteTimeout time.Duration // default 10s
}

// Producer publishes JSON events to Kafka, one lazily created writer per
// topic. Writers are safe for concurrent use and shared across requests.
type Producer struct {
	cfg ProducerConfig
	log *logger.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewProducer creates a producer. No connection is made until the first
// Publish on a topic.
func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &Producer{
		cfg:     cfg,
		writers: make(map[string]*kafka.Writer),
		log:     logger.Get().With("component", "kafka_producer"),
	}
}

// Publish marshals event to JSON and writes it to topic under key
func (p *Producer) Publish(ctx context.Context, topic, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}

	w := p.writer(topic)
	if err := w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}); err != nil {
		p.log.Errorf("Publish to %s failed: %v", topic, err)
		return err
	}

	p.log.Debugf("Published to %s key=%s", topic, key)
	return nil
}

func (p *Producer) writer(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(p.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: p.cfg.WriteTimeout,
	}
	p.writers[topic] = w
	return w
}

// Close shuts down every topic writer, returning the first error seen
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			p.log.Errorf("Close writer for %s: %v", topic, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	p.writers = make(map[string]*kafka.Writer)
	return firstErr
}
