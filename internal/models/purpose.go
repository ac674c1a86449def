package models

import (
	"errors"
	"strings"
)

// Purpose identifies what a checkout preference pays for.
type Purpose string

const (
	PurposeWalletDeposit       Purpose = "wallet_deposit"
	PurposeHiringPayment       Purpose = "hiring_payment"
	PurposeSubscriptionPayment Purpose = "subscription_payment"
)

// ErrInvalidPurpose is returned for purposes outside the supported set.
var ErrInvalidPurpose = errors.New("invalid payment purpose")

// ParsePurpose validates a purpose string.
func ParsePurpose(s string) (Purpose, error) {
	switch p := Purpose(strings.TrimSpace(s)); p {
	case PurposeWalletDeposit, PurposeHiringPayment, PurposeSubscriptionPayment:
		return p, nil
	}
	return "", ErrInvalidPurpose
}

// TransactionType returns the ledger type recorded for a purpose.
func (p Purpose) TransactionType() TransactionType {
	switch p {
	case PurposeHiringPayment:
		return TypeHiring
	case PurposeSubscriptionPayment:
		return TypeSubscription
	default:
		return TypeDeposit
	}
}

// ReferencePrefix is the first segment of generated external references.
func (p Purpose) ReferencePrefix() string {
	switch p {
	case PurposeHiringPayment:
		return "hiring"
	case PurposeSubscriptionPayment:
		return "subscription"
	default:
		return "deposit"
	}
}

// CategoryID is the gateway item category for a purpose.
func (p Purpose) CategoryID() string {
	if p == PurposeSubscriptionPayment {
		return "subscriptions"
	}
	return "services"
}

// PurposeFromReferencePrefix maps a reference prefix back to its purpose.
func PurposeFromReferencePrefix(prefix string) (Purpose, bool) {
	switch prefix {
	case "deposit":
		return PurposeWalletDeposit, true
	case "hiring":
		return PurposeHiringPayment, true
	case "subscription":
		return PurposeSubscriptionPayment, true
	}
	return "", false
}
