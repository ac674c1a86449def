package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/metrics"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// ErrInsufficientFunds is returned when a debit would leave the balance below zero.
var ErrInsufficientFunds = models.ErrInsufficientFunds

// BalanceStore persists wallet balances and their ledger.
type BalanceStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetProfileForUpdate(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID, email string) error
	HasEntry(ctx context.Context, transactionID uuid.UUID, direction models.Direction) (bool, error)
	ApplyChange(ctx context.Context, change models.BalanceChange) (balance int64, applied bool, err error)
}

// BalanceMutator applies idempotent balance changes keyed by transaction and direction.
type BalanceMutator struct {
	store BalanceStore
}

// NewBalanceMutator creates a new BalanceMutator.
func NewBalanceMutator(store BalanceStore) *BalanceMutator {
	return &BalanceMutator{store: store}
}

// Apply applies change once. A repeated change returns the current balance
// with applied=false.
func (m *BalanceMutator) Apply(ctx context.Context, change models.BalanceChange) (int64, bool, error) {
	if change.Amount <= 0 {
		return 0, false, models.ErrInvalidAmount
	}

	balance, applied, err := m.store.ApplyChange(ctx, change)
	switch {
	case errors.Is(err, models.ErrInsufficientFunds):
		metrics.BalanceMutations.WithLabelValues(string(change.Direction), "insufficient_funds").Inc()
		return 0, false, err
	case err != nil:
		metrics.BalanceMutations.WithLabelValues(string(change.Direction), "error").Inc()
		return 0, false, fmt.Errorf("apply balance change: %w", err)
	case !applied:
		metrics.BalanceMutations.WithLabelValues(string(change.Direction), "duplicate").Inc()
		logger.FromContext(ctx).Infow("balance change already applied",
			"transaction_id", change.TransactionID, "direction", change.Direction)
	default:
		metrics.BalanceMutations.WithLabelValues(string(change.Direction), "applied").Inc()
		logger.FromContext(ctx).Infow("balance changed",
			"user_id", change.UserID, "transaction_id", change.TransactionID,
			"direction", change.Direction, "amount", change.Amount, "balance", balance)
	}
	return balance, applied, nil
}

// Reverse applies change only when the entry it reverses exists, that is an
// entry in the opposite direction for the same transaction.
func (m *BalanceMutator) Reverse(ctx context.Context, change models.BalanceChange) (int64, bool, error) {
	exists, err := m.store.HasEntry(ctx, change.TransactionID, change.Direction.Opposite())
	if err != nil {
		return 0, false, fmt.Errorf("check reversed entry: %w", err)
	}
	if !exists {
		profile, err := m.store.GetProfile(ctx, change.UserID)
		if err != nil {
			return 0, false, err
		}
		return profile.WalletBalance, false, nil
	}
	return m.Apply(ctx, change)
}

// Balance returns the current balance of a user, creating an empty profile when needed.
func (m *BalanceMutator) Balance(ctx context.Context, userID uuid.UUID, email string) (int64, error) {
	profile, err := m.store.GetProfile(ctx, userID)
	if errors.Is(err, models.ErrProfileNotFound) {
		if err := m.store.EnsureProfile(ctx, userID, email); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return profile.WalletBalance, nil
}
