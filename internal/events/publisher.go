package events

import (
	"context"
	"fmt"
	"time"

	"gridiron/internal/adapters/kafka"
	"gridiron/pkg/logger"
)

// ProjectionCreatedEvent is emitted after a projection record commits.
// Downstream consumers (pricing, alerting, analytics) key on the natural
// key; repeated serves for the same key re-emit with the fresh prediction.
type ProjectionCreatedEvent struct {
	RequestID    string    `json:"request_id"`
	PlayerID     int64     `json:"player_id"`
	MarketCode   string    `json:"market_code"`
	ModelName    string    `json:"model_name"`
	Lookback     int       `json:"lookback"`
	AsOfGameDate string    `json:"as_of_game_date"`
	Prediction   float64   `json:"prediction"`
	CreatedAt    time.Time `json:"created_at"`
}

// Publisher publishes projection events to Kafka
type Publisher struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(producer *kafka.Producer, topic string) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		log:      logger.Get().With("component", "event_publisher"),
	}
}

// PublishProjectionCreated publishes a projection created event.
// Fire-and-forget from the caller's perspective: a broker failure is logged
// and never fails the projection request that triggered it.
func (p *Publisher) PublishProjectionCreated(ctx context.Context, event ProjectionCreatedEvent) {
	key := fmt.Sprintf("%d:%s:%s:%d:%s",
		event.PlayerID, event.MarketCode, event.ModelName, event.Lookback, event.AsOfGameDate)

	if err := p.producer.Publish(ctx, p.topic, key, event); err != nil {
		p.log.Errorf("Failed to publish projection.created for %s: %v", key, err)
	}
}
