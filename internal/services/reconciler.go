package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/metrics"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
	"github.com/sbilibin2017/gw-payment-ledger/internal/repositories"
)

// ErrReconcileInProgress is returned when another worker holds the reconcile lock of a transaction.
var ErrReconcileInProgress = errors.New("reconciliation already in progress")

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReconcileTransactionStore is the part of the transaction store the reconciler needs.
type ReconcileTransactionStore interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TransactionStatus, statusDetail, paymentMethodID string) (bool, error)
}

// SubscriptionStore persists subscription state.
type SubscriptionStore interface {
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*models.SubscriptionState, error)
	Save(ctx context.Context, s models.SubscriptionState) error
	ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// ContractStore updates hiring contracts.
type ContractStore interface {
	SetPaymentStatus(ctx context.Context, contractID uuid.UUID, action models.ContractAction, transactionID uuid.UUID) error
}

// Locker hands out short-lived distributed locks.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// ReconcileRequest asks to move a transaction to a new status.
type ReconcileRequest struct {
	TransactionID   uuid.UUID
	Status          models.TransactionStatus
	StatusDetail    string
	PaymentMethodID string
}

// Outcome describes what a reconciliation did.
type Outcome struct {
	Transaction *models.WalletTransaction
	From        models.TransactionStatus
	To          models.TransactionStatus
	// Applied is false when the request was a no-op.
	Applied bool
	// Balance is the wallet balance after the change when the balance was touched.
	Balance *int64
}

// Reconciler applies status transitions and their effects atomically.
type Reconciler struct {
	transactor    Transactor
	txs           ReconcileTransactionStore
	balances      *BalanceMutator
	subscriptions SubscriptionStore
	contracts     ContractStore
	locker        Locker
	emitter       emitter
	now           func() time.Time
}

// NewReconciler creates a new Reconciler. locker, events and notifier may be nil.
func NewReconciler(
	transactor Transactor,
	txs ReconcileTransactionStore,
	balances *BalanceMutator,
	subscriptions SubscriptionStore,
	contracts ContractStore,
	locker Locker,
	events EventPublisher,
	notifier NotificationSender,
) *Reconciler {
	return &Reconciler{
		transactor:    transactor,
		txs:           txs,
		balances:      balances,
		subscriptions: subscriptions,
		contracts:     contracts,
		locker:        locker,
		emitter:       emitter{events: events, notifier: notifier},
		now:           time.Now,
	}
}

// LockKey returns the distributed lock key of a transaction.
func LockKey(transactionID uuid.UUID) string {
	return "lock:reconcile:" + transactionID.String()
}

// Apply moves a transaction to req.Status. Same-status arrivals, arrivals on
// an absorbing status and lost races are no-ops. Every effect of the
// transition commits together or not at all.
func (r *Reconciler) Apply(ctx context.Context, req ReconcileRequest) (*Outcome, error) {
	log := logger.FromContext(ctx)

	if r.locker != nil {
		release, err := r.locker.Acquire(ctx, LockKey(req.TransactionID))
		switch {
		case errors.Is(err, repositories.ErrLockHeld):
			metrics.Reconciliations.WithLabelValues(string(req.Status), "locked").Inc()
			return nil, ErrReconcileInProgress
		case err != nil:
			// Row locks still serialize the transition.
			log.Warnw("reconcile lock unavailable", "transaction_id", req.TransactionID, "error", err)
		default:
			defer release()
		}
	}

	var out Outcome
	err := r.transactor.WithinTx(ctx, func(ctx context.Context) error {
		out = Outcome{To: req.Status}

		tx, err := r.txs.GetByIDForUpdate(ctx, req.TransactionID)
		if err != nil {
			return err
		}
		out.Transaction, out.From = tx, tx.Status

		plan := models.PlanTransition(tx, req.Status)
		if plan.Noop {
			return nil
		}

		updated, err := r.txs.UpdateStatus(ctx, tx.ID, tx.Status, req.Status, req.StatusDetail, req.PaymentMethodID)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if !updated {
			return nil
		}

		if err := r.applyEffects(ctx, tx, plan, &out); err != nil {
			return err
		}

		tx.Status = req.Status
		if req.StatusDetail != "" {
			tx.StatusDetail = req.StatusDetail
		}
		if req.PaymentMethodID != "" {
			tx.PaymentMethodID = req.PaymentMethodID
		}
		out.Applied = true
		return nil
	})
	if err != nil {
		metrics.Reconciliations.WithLabelValues(string(req.Status), "error").Inc()
		log.Errorw("reconciliation failed", "transaction_id", req.TransactionID, "status", req.Status, "error", err)
		return nil, err
	}

	if !out.Applied {
		metrics.Reconciliations.WithLabelValues(string(req.Status), "noop").Inc()
		if req.Status == models.StatusApproved && (out.From == models.StatusRejected || out.From == models.StatusCancelled) {
			metrics.PaymentAnomalies.WithLabelValues("orphaned").Inc()
			log.Errorw("approval arrived for a closed transaction, manual action required",
				"transaction_id", req.TransactionID, "from", out.From, "provider_id", out.Transaction.ProviderID())
			return &out, nil
		}
		log.Infow("reconciliation no-op", "transaction_id", req.TransactionID, "from", out.From, "to", req.Status)
		return &out, nil
	}

	metrics.Reconciliations.WithLabelValues(string(req.Status), "applied").Inc()
	log.Infow("transaction reconciled",
		"transaction_id", out.Transaction.ID, "type", out.Transaction.Type,
		"from", out.From, "to", out.To, "amount", out.Transaction.Amount)

	r.emitter.transactionChanged(ctx, out.Transaction, out.From, out.Balance)
	return &out, nil
}

func (r *Reconciler) applyEffects(ctx context.Context, tx *models.WalletTransaction, plan models.Transition, out *Outcome) error {
	if op := plan.Balance; op != nil {
		change := models.BalanceChange{
			UserID:        tx.UserID,
			TransactionID: tx.ID,
			Direction:     op.Direction,
			Amount:        op.Amount,
			Description:   fmt.Sprintf("%s %s -> %s", tx.Type, plan.From, plan.To),
			NonNegative:   op.NonNegative,
		}

		apply := r.balances.Apply
		if op.Reversal {
			apply = r.balances.Reverse
		}
		balance, _, err := apply(ctx, change)
		if err != nil {
			return err
		}
		out.Balance = &balance
	}

	if plan.SubscriptionDays != 0 {
		state, err := r.subscriptions.GetForUpdate(ctx, tx.UserID)
		if err != nil {
			return fmt.Errorf("load subscription: %w", err)
		}
		now := r.now()
		expiry := models.ExtendExpiry(state.ExpiresAt, now, plan.SubscriptionDays)
		state.ExpiresAt = &expiry
		state.Type = state.Derived(now)
		if err := r.subscriptions.Save(ctx, *state); err != nil {
			return fmt.Errorf("save subscription: %w", err)
		}
	}

	if plan.Contract != models.ContractNone {
		contractID, err := uuid.Parse(tx.Metadata[models.MetaContractID])
		if err != nil {
			logger.FromContext(ctx).Warnw("hiring payment without contract", "transaction_id", tx.ID)
			return nil
		}
		err = r.contracts.SetPaymentStatus(ctx, contractID, plan.Contract, tx.ID)
		if errors.Is(err, models.ErrContractNotFound) {
			logger.FromContext(ctx).Warnw("hiring contract not found", "transaction_id", tx.ID, "contract_id", contractID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("update contract: %w", err)
		}
	}
	return nil
}
