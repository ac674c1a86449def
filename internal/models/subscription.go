package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionType is the plan a profile is on.
type SubscriptionType string

const (
	SubscriptionNone SubscriptionType = "none"
	SubscriptionPro  SubscriptionType = "pro"
)

// SubscriptionState mirrors the subscription columns of a profile.
type SubscriptionState struct {
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      SubscriptionType `json:"subscription_type" db:"subscription_type"`
	ExpiresAt *time.Time       `json:"subscription_expires_at" db:"subscription_expires_at"`
}

// Derived returns the subscription type implied by the expiry at now.
func (s SubscriptionState) Derived(now time.Time) SubscriptionType {
	if s.ExpiresAt != nil && s.ExpiresAt.After(now) {
		return SubscriptionPro
	}
	return SubscriptionNone
}

// Drifted reports whether the stored type disagrees with the expiry.
func (s SubscriptionState) Drifted(now time.Time) bool {
	return s.Type != s.Derived(now)
}

// ExtendExpiry moves the expiry by days. Extensions start from
// max(now, current expiry); reductions start from the current expiry.
func ExtendExpiry(current *time.Time, now time.Time, days int) time.Time {
	period := time.Duration(days) * 24 * time.Hour
	if days < 0 {
		if current == nil {
			return now
		}
		return current.Add(period)
	}
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.Add(period)
}
