package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// PayoutService credits incoming payouts, such as escrow releases, to a wallet.
type PayoutService struct {
	txs        TransactionCreator
	profiles   ProfileEnsurer
	reconciler TransitionApplier
	now        func() time.Time
}

// NewPayoutService creates a new PayoutService.
func NewPayoutService(txs TransactionCreator, profiles ProfileEnsurer, reconciler TransitionApplier) *PayoutService {
	return &PayoutService{txs: txs, profiles: profiles, reconciler: reconciler, now: time.Now}
}

// Create records a pending payout for userID and settles it.
func (s *PayoutService) Create(ctx context.Context, adminID, userID uuid.UUID, amount int64, description string) (*Outcome, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	if err := s.profiles.EnsureProfile(ctx, userID, ""); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = "Repasse"
	}
	tx := &models.WalletTransaction{
		ID:                uuid.New(),
		UserID:            userID,
		Type:              models.TypePayout,
		Amount:            amount,
		Status:            models.StatusPending,
		ExternalReference: fmt.Sprintf("payout_%s_%d", userID, s.now().UnixMilli()),
		Description:       description,
		Metadata: models.Metadata{
			models.MetaUserID: userID.String(),
			"created_by":      adminID.String(),
		},
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("record payout: %w", err)
	}

	logger.FromContext(ctx).Infow("payout created", "transaction_id", tx.ID, "user_id", userID, "admin_id", adminID, "amount", amount)
	return s.reconciler.Apply(ctx, ReconcileRequest{
		TransactionID: tx.ID,
		Status:        models.StatusApproved,
		StatusDetail:  "payout_released",
	})
}
