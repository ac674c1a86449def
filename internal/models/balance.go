package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Direction is the side of a balance ledger entry.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// Opposite returns the reversing direction.
func (d Direction) Opposite() Direction {
	if d == Credit {
		return Debit
	}
	return Credit
}

// Signed applies the direction sign to a positive amount.
func (d Direction) Signed(amount int64) int64 {
	if d == Debit {
		return -amount
	}
	return amount
}

// BalanceEntry is one row of the append-only wallet_balance_entries ledger.
type BalanceEntry struct {
	ID            string    `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	TransactionID uuid.UUID `json:"transaction_id" db:"transaction_id"`
	Direction     Direction `json:"direction" db:"direction"`
	Amount        int64     `json:"amount" db:"amount"`
	BalanceAfter  int64     `json:"balance_after" db:"balance_after"`
	Description   string    `json:"description" db:"description"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// BalanceChange requests a single idempotent balance mutation.
// The pair (TransactionID, Direction) is the idempotency key.
type BalanceChange struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
	Direction     Direction
	Amount        int64 // positive cents
	Description   string
	// NonNegative rejects the change when it would leave the balance below zero.
	NonNegative bool
}

// ErrInsufficientFunds is returned when a debit would leave the balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")
