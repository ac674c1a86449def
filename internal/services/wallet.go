package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// WalletTransactionReader reads wallet transactions.
type WalletTransactionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error)
}

// WalletService serves the read side of a user's wallet.
type WalletService struct {
	balances *BalanceMutator
	txs      WalletTransactionReader
}

// NewWalletService creates a new WalletService.
func NewWalletService(profiles BalanceStore, txs WalletTransactionReader) *WalletService {
	return &WalletService{balances: NewBalanceMutator(profiles), txs: txs}
}

// GetUserBalance returns the user's balance in cents.
func (s *WalletService) GetUserBalance(ctx context.Context, userID uuid.UUID, email string) (int64, error) {
	balance, err := s.balances.Balance(ctx, userID, email)
	if err != nil {
		logger.Log.Errorw("failed to get user balance", "userID", userID, "error", err)
		return 0, err
	}
	return balance, nil
}

// ListTransactions returns a page of the user's transactions, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	txs, err := s.txs.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "userID", userID, "error", err)
		return nil, err
	}
	if txs == nil {
		txs = []models.WalletTransaction{}
	}
	return txs, nil
}

// GetTransaction returns one of the user's transactions.
func (s *WalletService) GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.WalletTransaction, error) {
	tx, err := s.txs.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, models.ErrTransactionNotFound
	}
	return tx, nil
}
