package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// TransactionRepository persists wallet transactions.
type TransactionRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionRepository {
	return &TransactionRepository{db: db, txGetter: txGetter}
}

const transactionColumns = `
	id, user_id, type, amount, status, status_detail, provider_transaction_id,
	external_reference, payment_method_id, description, metadata, created_at, updated_at
`

// Create inserts a new wallet transaction.
func (r *TransactionRepository) Create(ctx context.Context, t *models.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	args := []any{
		t.ID, t.UserID, t.Type, t.Amount, t.Status, t.StatusDetail, t.ProviderTransactionID,
		t.ExternalReference, t.PaymentMethodID, t.Description, t.Metadata,
	}
	row := executor(ctx, r.db, r.txGetter).QueryRowxContext(ctx, query, args...)
	err := row.Scan(&t.CreatedAt, &t.UpdatedAt)
	logQuery(query, args, t.ID, err)
	return err
}

// UpsertByExternalReference inserts t or, when a row with the same external
// reference exists, fills in its provider id and returns the stored row.
func (r *TransactionRepository) UpsertByExternalReference(ctx context.Context, t *models.WalletTransaction) (*models.WalletTransaction, error) {
	query := `
		INSERT INTO wallet_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (external_reference) DO UPDATE
		SET provider_transaction_id = COALESCE(EXCLUDED.provider_transaction_id, wallet_transactions.provider_transaction_id),
		    payment_method_id = CASE WHEN wallet_transactions.payment_method_id = ''
		        THEN EXCLUDED.payment_method_id ELSE wallet_transactions.payment_method_id END,
		    updated_at = NOW()
		RETURNING ` + transactionColumns
	args := []any{
		t.ID, t.UserID, t.Type, t.Amount, t.Status, t.StatusDetail, t.ProviderTransactionID,
		t.ExternalReference, t.PaymentMethodID, t.Description, t.Metadata,
	}
	var stored models.WalletTransaction
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &stored, query, args...)
	logQuery(query, args, stored.ID, err)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByID returns a transaction by its internal id.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = $1`, id)
}

// GetByIDForUpdate returns a transaction and locks its row until the
// surrounding transaction ends.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = $1 FOR UPDATE`, id)
}

// GetByProviderID returns a transaction by the gateway transaction id.
func (r *TransactionRepository) GetByProviderID(ctx context.Context, providerID string) (*models.WalletTransaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE provider_transaction_id = $1`, providerID)
}

// GetByExternalReference returns a transaction by its correlation key.
func (r *TransactionRepository) GetByExternalReference(ctx context.Context, ref string) (*models.WalletTransaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE external_reference = $1`, ref)
}

func (r *TransactionRepository) getOne(ctx context.Context, query string, arg any) (*models.WalletTransaction, error) {
	var t models.WalletTransaction
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &t, query, arg)
	logQuery(query, []any{arg}, t.Status, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// BindProviderID records the gateway payment id on a transaction that was
// created with the preference id.
func (r *TransactionRepository) BindProviderID(ctx context.Context, id uuid.UUID, providerID string) error {
	query := `
		UPDATE wallet_transactions
		SET provider_transaction_id = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, id, providerID)
	logQuery(query, []any{id, providerID}, nil, err)
	return err
}

// UpdateStatus moves a transaction from one status to another. The update is
// conditional on the current status, so concurrent callers racing on the same
// transition see updated=true exactly once.
func (r *TransactionRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to models.TransactionStatus,
	statusDetail, paymentMethodID string,
) (updated bool, err error) {
	query := `
		UPDATE wallet_transactions
		SET status = $3,
		    status_detail = CASE WHEN $4 = '' THEN status_detail ELSE $4 END,
		    payment_method_id = CASE WHEN $5 = '' THEN payment_method_id ELSE $5 END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	args := []any{id, from, to, statusDetail, paymentMethodID}
	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rows int64
	if res != nil {
		rows, _ = res.RowsAffected()
	}
	logQuery(query, args, rows, err)
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// ListByUser returns a page of the user's transactions, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var txs []models.WalletTransaction
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &txs, query, userID, limit, offset)
	logQuery(query, []any{userID, limit, offset}, len(txs), err)
	return txs, err
}

// LatestApproved returns the most recently approved transaction of a type.
func (r *TransactionRepository) LatestApproved(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (*models.WalletTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM wallet_transactions
		WHERE user_id = $1 AND type = $2 AND status = 'approved'
		ORDER BY updated_at DESC
		LIMIT 1
	`
	var t models.WalletTransaction
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &t, query, userID, txType)
	logQuery(query, []any{userID, txType}, t.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
