package services

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// Notifier hands notifications and ledger events to Kafka for the external dispatcher.
type Notifier struct {
	notifications KafkaWriter
	ledger        KafkaWriter
}

// NewNotifier creates a new Notifier. Either writer may be nil.
func NewNotifier(notifications, ledger KafkaWriter) *Notifier {
	return &Notifier{notifications: notifications, ledger: ledger}
}

// Send publishes a notification. Failures are logged and never returned.
func (n *Notifier) Send(ctx context.Context, notification models.Notification) {
	if len(notification.Channels) == 0 {
		notification.Channels = []string{models.ChannelInApp}
	}
	n.write(ctx, n.notifications, notification.UserID.String(), notification, "notification", notification.Type)
}

// PublishTransaction publishes a ledger event keyed by transaction id.
func (n *Notifier) PublishTransaction(ctx context.Context, txn models.Transaction) {
	n.write(ctx, n.ledger, txn.TransactionID, txn, "transaction", txn.Status)
}

func (n *Notifier) write(ctx context.Context, w KafkaWriter, key string, v any, kind, label string) {
	if w == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "kind", kind, "key", key)
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorw("Failed to marshal message for Kafka", "kind", kind, "key", key, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish message to Kafka", "kind", kind, "key", key, "error", err)
	} else {
		logger.Log.Infow("Message published to Kafka", "kind", kind, "key", key, "label", label)
	}
}
