package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// SubscriptionRepository persists the subscription columns of profiles.
type SubscriptionRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, txGetter: txGetter}
}

// GetForUpdate returns the subscription state of a user and locks the profile row.
func (r *SubscriptionRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*models.SubscriptionState, error) {
	query := `
		SELECT user_id, subscription_type, subscription_expires_at
		FROM profiles
		WHERE user_id = $1
		FOR UPDATE
	`
	var s models.SubscriptionState
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &s, query, userID)
	logQuery(query, []any{userID}, s.Type, err)
	if err != nil {
		return nil, notFoundAs(err, models.ErrProfileNotFound)
	}
	return &s, nil
}

// Save writes the subscription state of a user.
func (r *SubscriptionRepository) Save(ctx context.Context, s models.SubscriptionState) error {
	query := `
		UPDATE profiles
		SET subscription_type = $2, subscription_expires_at = $3, updated_at = NOW()
		WHERE user_id = $1
	`
	args := []any{s.UserID, s.Type, s.ExpiresAt}
	_, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	logQuery(query, args, nil, err)
	return err
}

// ExpireDue downgrades every pro subscription whose expiry is at or before now
// in a single conditional statement and returns the affected users.
func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE profiles
		SET subscription_type = 'none', updated_at = NOW()
		WHERE subscription_type = 'pro' AND subscription_expires_at <= $1
		RETURNING user_id
	`
	var ids []uuid.UUID
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &ids, query, now)
	logQuery(query, []any{now}, len(ids), err)
	return ids, err
}
