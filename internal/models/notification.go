package models

import (
	"github.com/google/uuid"
)

// Notification channels understood by the dispatcher.
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelPush  = "push"
)

// Notification is handed to the external dispatcher.
type Notification struct {
	UserID   uuid.UUID         `json:"user_id"`
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Data     map[string]string `json:"data,omitempty"`
	Channels []string          `json:"channels"`
}

// WalletEvent is pushed to connected clients when a transaction changes.
type WalletEvent struct {
	UserID        uuid.UUID         `json:"user_id"`
	TransactionID uuid.UUID         `json:"transaction_id"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Amount        int64             `json:"amount"`
	Balance       *int64            `json:"balance,omitempty"`
}
