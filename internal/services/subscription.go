package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// LatestApprovedReader finds the most recent approved transaction of a type.
type LatestApprovedReader interface {
	LatestApproved(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (*models.WalletTransaction, error)
}

// JobStore expires job postings.
type JobStore interface {
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// SubscriptionStatus is the derived subscription view of a user.
type SubscriptionStatus struct {
	Type          models.SubscriptionType
	ExpiresAt     *time.Time
	Active        bool
	DaysRemaining int
	// Corrected is true when the stored type had drifted and was fixed.
	Corrected bool
}

// SubscriptionService keeps subscription state consistent with its expiry.
type SubscriptionService struct {
	transactor    Transactor
	subscriptions SubscriptionStore
	txs           LatestApprovedReader
	jobs          JobStore
	emitter       emitter
	now           func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(
	transactor Transactor,
	subscriptions SubscriptionStore,
	txs LatestApprovedReader,
	jobs JobStore,
	notifier NotificationSender,
) *SubscriptionService {
	return &SubscriptionService{
		transactor:    transactor,
		subscriptions: subscriptions,
		txs:           txs,
		jobs:          jobs,
		emitter:       emitter{notifier: notifier},
		now:           time.Now,
	}
}

// SmartStatus returns the subscription derived from the expiry and corrects
// the stored type in place when it drifted.
func (s *SubscriptionService) SmartStatus(ctx context.Context, userID uuid.UUID) (*SubscriptionStatus, error) {
	now := s.now()
	var status *SubscriptionStatus
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		state, err := s.subscriptions.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		corrected := false
		if state.Drifted(now) {
			logger.FromContext(ctx).Infow("subscription drift corrected",
				"user_id", userID, "stored", state.Type, "derived", state.Derived(now))
			state.Type = state.Derived(now)
			if err := s.subscriptions.Save(ctx, *state); err != nil {
				return err
			}
			corrected = true
		}
		status = statusOf(*state, now)
		status.Corrected = corrected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Sync recomputes the subscription from the latest approved subscription
// payment and the stored expiry, keeping whichever expiry is later.
func (s *SubscriptionService) Sync(ctx context.Context, userID uuid.UUID) (*SubscriptionStatus, error) {
	now := s.now()
	var status *SubscriptionStatus
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		state, err := s.subscriptions.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		latest, err := s.txs.LatestApproved(ctx, userID, models.TypeSubscription)
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
		case err != nil:
			return err
		default:
			paidUntil := latest.UpdatedAt.Add(time.Duration(models.PeriodDays(latest)) * 24 * time.Hour)
			if state.ExpiresAt == nil || paidUntil.After(*state.ExpiresAt) {
				state.ExpiresAt = &paidUntil
			}
		}

		before := state.Type
		state.Type = state.Derived(now)
		if err := s.subscriptions.Save(ctx, *state); err != nil {
			return err
		}
		status = statusOf(*state, now)
		status.Corrected = before != state.Type
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("subscription synced", "user_id", userID, "type", status.Type)
	return status, nil
}

// ExpireSubscriptions downgrades every expired pro subscription and notifies the users.
func (s *SubscriptionService) ExpireSubscriptions(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.subscriptions.ExpireDue(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.emitter.notify(ctx, models.Notification{
			UserID:   id,
			Type:     "subscription_expired",
			Title:    "Assinatura PRO expirada",
			Message:  "Sua assinatura expirou. Renove para continuar com os benefícios PRO.",
			Channels: []string{models.ChannelInApp, models.ChannelEmail},
		})
	}
	logger.FromContext(ctx).Infow("subscriptions expired", "count", len(ids))
	return ids, nil
}

// ExpireJobs closes every active job posting past its expiry.
func (s *SubscriptionService) ExpireJobs(ctx context.Context) (int64, error) {
	n, err := s.jobs.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	logger.FromContext(ctx).Infow("jobs expired", "count", n)
	return n, nil
}

func statusOf(state models.SubscriptionState, now time.Time) *SubscriptionStatus {
	st := &SubscriptionStatus{Type: state.Type, ExpiresAt: state.ExpiresAt}
	if state.Derived(now) == models.SubscriptionPro {
		st.Active = true
		st.DaysRemaining = int(math.Ceil(state.ExpiresAt.Sub(now).Hours() / 24))
	}
	return st
}
