package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Profile holds the wallet and subscription columns of a user profile.
type Profile struct {
	UserID                uuid.UUID        `json:"user_id" db:"user_id"`
	Email                 string           `json:"email" db:"email"`
	WalletBalance         int64            `json:"wallet_balance" db:"wallet_balance"`
	SubscriptionType      SubscriptionType `json:"subscription_type" db:"subscription_type"`
	SubscriptionExpiresAt *time.Time       `json:"subscription_expires_at" db:"subscription_expires_at"`
	UpdatedAt             time.Time        `json:"updated_at" db:"updated_at"`
}

// Subscription returns the subscription view of the profile.
func (p *Profile) Subscription() SubscriptionState {
	return SubscriptionState{UserID: p.UserID, Type: p.SubscriptionType, ExpiresAt: p.SubscriptionExpiresAt}
}

// ErrProfileNotFound is returned when a user has no profile row.
var ErrProfileNotFound = errors.New("profile not found")
