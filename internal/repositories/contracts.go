package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// ContractRepository updates the payment state of hiring contracts.
type ContractRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

// NewContractRepository creates a new ContractRepository.
func NewContractRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ContractRepository {
	return &ContractRepository{db: db, txGetter: txGetter}
}

// SetPaymentStatus marks a contract funded or refunded by a wallet transaction.
func (r *ContractRepository) SetPaymentStatus(ctx context.Context, contractID uuid.UUID, action models.ContractAction, transactionID uuid.UUID) error {
	query := `
		UPDATE contracts
		SET payment_status = $2,
		    transaction_id = $3,
		    funded_at = CASE WHEN $2 = 'funded' THEN NOW() ELSE funded_at END,
		    updated_at = NOW()
		WHERE id = $1
	`
	args := []any{contractID, string(action), transactionID}
	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rows int64
	if res != nil {
		rows, _ = res.RowsAffected()
	}
	logQuery(query, args, rows, err)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("contract %s: %w", contractID, models.ErrContractNotFound)
	}
	return nil
}
