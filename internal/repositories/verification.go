package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// VerificationRepository persists identity verification records.
type VerificationRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

// NewVerificationRepository creates a new VerificationRepository.
func NewVerificationRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *VerificationRepository {
	return &VerificationRepository{db: db, txGetter: txGetter}
}

const selectVerification = `
	SELECT user_id, status, document_front, document_back, selfie, pix_key, pix_key_type,
	       rejection_reason, reviewed_by, reviewed_at, created_at, updated_at
	FROM identity_verifications
	WHERE user_id = $1
`

// Get returns the verification record of a user or a not_verified record when none exists.
func (r *VerificationRepository) Get(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error) {
	return r.get(ctx, selectVerification, userID)
}

// GetForUpdate is Get with a row lock held until the surrounding transaction ends.
func (r *VerificationRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error) {
	return r.get(ctx, selectVerification+" FOR UPDATE", userID)
}

func (r *VerificationRepository) get(ctx context.Context, query string, userID uuid.UUID) (*models.VerificationRecord, error) {
	var v models.VerificationRecord
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &v, query, userID)
	logQuery(query, []any{userID}, v.Status, err)

	if errors.Is(err, sql.ErrNoRows) {
		return &models.VerificationRecord{UserID: userID, Status: models.VerificationNotVerified}, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Save inserts or replaces the verification record of a user.
func (r *VerificationRepository) Save(ctx context.Context, v *models.VerificationRecord) error {
	query := `
		INSERT INTO identity_verifications
			(user_id, status, document_front, document_back, selfie, pix_key, pix_key_type,
			 rejection_reason, reviewed_by, reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET status = EXCLUDED.status,
		    document_front = EXCLUDED.document_front,
		    document_back = EXCLUDED.document_back,
		    selfie = EXCLUDED.selfie,
		    pix_key = EXCLUDED.pix_key,
		    pix_key_type = EXCLUDED.pix_key_type,
		    rejection_reason = EXCLUDED.rejection_reason,
		    reviewed_by = EXCLUDED.reviewed_by,
		    reviewed_at = EXCLUDED.reviewed_at,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`
	args := []any{
		v.UserID, v.Status, v.DocumentFront, v.DocumentBack, v.Selfie, v.PixKey, v.PixKeyType,
		v.RejectionReason, v.ReviewedBy, v.ReviewedAt,
	}
	err := executor(ctx, r.db, r.txGetter).QueryRowxContext(ctx, query, args...).Scan(&v.CreatedAt, &v.UpdatedAt)
	logQuery(query, args, v.Status, err)
	return err
}
