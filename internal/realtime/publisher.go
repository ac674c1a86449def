package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// Channel is the Redis pub/sub channel carrying wallet events between instances.
const Channel = "wallet:events"

// Publisher publishes wallet events to Redis.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a new Publisher.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish sends event to every instance subscribed to Channel.
func (p *Publisher) Publish(ctx context.Context, event models.WalletEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
