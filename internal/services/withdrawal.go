package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

var (
	// ErrNotVerified is returned when an unverified user requests a withdrawal.
	ErrNotVerified = errors.New("identity not verified")
	// ErrMissingPixKey is returned when a verified user has no PIX key on file.
	ErrMissingPixKey = errors.New("pix key not registered")
	// ErrWithdrawalNotPending is returned when a withdrawal can no longer be reviewed or cancelled.
	ErrWithdrawalNotPending = errors.New("withdrawal is not pending")
)

// VerificationReader reads verification records.
type VerificationReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error)
}

// WithdrawalTransactionStore records and reads withdrawals.
type WithdrawalTransactionStore interface {
	Create(ctx context.Context, t *models.WalletTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error)
}

// WithdrawalService handles the withdrawal lifecycle behind the verification gate.
type WithdrawalService struct {
	transactor    Transactor
	verifications VerificationReader
	balances      *BalanceMutator
	profiles      BalanceStore
	txs           WithdrawalTransactionStore
	reconciler    TransitionApplier
	emitter       emitter
	now           func() time.Time
}

// NewWithdrawalService creates a new WithdrawalService.
func NewWithdrawalService(
	transactor Transactor,
	verifications VerificationReader,
	profiles BalanceStore,
	txs WithdrawalTransactionStore,
	reconciler TransitionApplier,
	events EventPublisher,
	notifier NotificationSender,
) *WithdrawalService {
	return &WithdrawalService{
		transactor:    transactor,
		verifications: verifications,
		balances:      NewBalanceMutator(profiles),
		profiles:      profiles,
		txs:           txs,
		reconciler:    reconciler,
		emitter:       emitter{events: events, notifier: notifier},
		now:           time.Now,
	}
}

// Request reserves amount from the user's balance and records a pending
// withdrawal to their PIX key. It returns the withdrawal and the balance after
// the reservation.
func (s *WithdrawalService) Request(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.WalletTransaction, int64, error) {
	if amount <= 0 {
		return nil, 0, models.ErrInvalidAmount
	}

	record, err := s.verifications.Get(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("load verification: %w", err)
	}
	if record.Status != models.VerificationVerified {
		return nil, 0, ErrNotVerified
	}
	if strings.TrimSpace(record.PixKey) == "" {
		return nil, 0, ErrMissingPixKey
	}

	if description == "" {
		description = "Saque via PIX"
	}
	tx := &models.WalletTransaction{
		ID:                uuid.New(),
		UserID:            userID,
		Type:              models.TypeWithdrawal,
		Amount:            amount,
		Status:            models.StatusPendingWithdrawal,
		ExternalReference: fmt.Sprintf("withdrawal_%s_%d", userID, s.now().UnixMilli()),
		PaymentMethodID:   "pix",
		Description:       description,
		Metadata: models.Metadata{
			models.MetaUserID: userID.String(),
			"pix_key":         record.PixKey,
			"pix_key_type":    string(record.PixKeyType),
		},
	}

	var balance int64
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		profile, err := s.profiles.GetProfileForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if profile.WalletBalance < amount {
			return ErrInsufficientFunds
		}
		if err := s.txs.Create(ctx, tx); err != nil {
			return fmt.Errorf("record withdrawal: %w", err)
		}
		balance, _, err = s.balances.Apply(ctx, models.BalanceChange{
			UserID:        userID,
			TransactionID: tx.ID,
			Direction:     models.Debit,
			Amount:        amount,
			Description:   "withdrawal reservation",
			NonNegative:   true,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			err = ErrInsufficientFunds
		}
		logger.FromContext(ctx).Warnw("withdrawal request refused", "user_id", userID, "amount", amount, "error", err)
		return nil, 0, err
	}

	logger.FromContext(ctx).Infow("withdrawal requested", "transaction_id", tx.ID, "user_id", userID, "amount", amount)
	s.emitter.transactionChanged(ctx, tx, "", &balance)
	return tx, balance, nil
}

// Cancel lets a user cancel their own pending withdrawal; the reservation is returned.
func (s *WithdrawalService) Cancel(ctx context.Context, userID, transactionID uuid.UUID) (*Outcome, error) {
	tx, err := s.pending(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, models.ErrTransactionNotFound
	}
	return s.reconciler.Apply(ctx, ReconcileRequest{
		TransactionID: tx.ID,
		Status:        models.StatusCancelled,
		StatusDetail:  "cancelled_by_user",
	})
}

// Approve marks a pending withdrawal as paid out.
func (s *WithdrawalService) Approve(ctx context.Context, adminID, transactionID uuid.UUID) (*Outcome, error) {
	if _, err := s.pending(ctx, transactionID); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("withdrawal approved", "transaction_id", transactionID, "admin_id", adminID)
	return s.reconciler.Apply(ctx, ReconcileRequest{
		TransactionID:   transactionID,
		Status:          models.StatusApproved,
		StatusDetail:    "approved_by_admin",
		PaymentMethodID: "pix",
	})
}

// Reject refuses a pending withdrawal; the reservation is returned.
func (s *WithdrawalService) Reject(ctx context.Context, adminID, transactionID uuid.UUID, reason string) (*Outcome, error) {
	if _, err := s.pending(ctx, transactionID); err != nil {
		return nil, err
	}
	detail := "rejected_by_admin"
	if reason = strings.TrimSpace(reason); reason != "" {
		detail = reason
	}
	logger.FromContext(ctx).Infow("withdrawal rejected", "transaction_id", transactionID, "admin_id", adminID, "reason", reason)
	return s.reconciler.Apply(ctx, ReconcileRequest{
		TransactionID: transactionID,
		Status:        models.StatusRejected,
		StatusDetail:  detail,
	})
}

func (s *WithdrawalService) pending(ctx context.Context, transactionID uuid.UUID) (*models.WalletTransaction, error) {
	tx, err := s.txs.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Type != models.TypeWithdrawal {
		return nil, models.ErrTransactionNotFound
	}
	if tx.Status != models.StatusPendingWithdrawal {
		return nil, ErrWithdrawalNotPending
	}
	return tx, nil
}
