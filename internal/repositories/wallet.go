package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// WalletRepository handles profile balances and the balance ledger.
type WalletRepository struct {
	db         *sqlx.DB
	txGetter   func(ctx context.Context) *sqlx.Tx
	transactor *Transactor
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *WalletRepository {
	return &WalletRepository{db: db, txGetter: txGetter, transactor: NewTransactor(db)}
}

const selectProfile = `
	SELECT user_id, email, wallet_balance, subscription_type, subscription_expires_at, updated_at
	FROM profiles
	WHERE user_id = $1
`

// GetProfile returns the profile of a user.
func (r *WalletRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return r.getProfile(ctx, selectProfile, userID)
}

// GetProfileForUpdate returns the profile of a user and locks its row until the
// surrounding transaction ends.
func (r *WalletRepository) GetProfileForUpdate(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return r.getProfile(ctx, selectProfile+" FOR UPDATE", userID)
}

func (r *WalletRepository) getProfile(ctx context.Context, query string, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &p, query, userID)
	logQuery(query, []any{userID}, p.WalletBalance, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureProfile creates an empty profile row for a user when none exists.
func (r *WalletRepository) EnsureProfile(ctx context.Context, userID uuid.UUID, email string) error {
	query := `
		INSERT INTO profiles (user_id, email, wallet_balance, subscription_type, updated_at)
		VALUES ($1, $2, 0, 'none', NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, userID, email)
	logQuery(query, []any{userID, email}, nil, err)
	return err
}

// HasEntry reports whether a ledger entry exists for the transaction and direction.
func (r *WalletRepository) HasEntry(ctx context.Context, transactionID uuid.UUID, direction models.Direction) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM wallet_balance_entries
			WHERE transaction_id = $1 AND direction = $2
		)
	`
	var exists bool
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &exists, query, transactionID, direction)
	logQuery(query, []any{transactionID, direction}, exists, err)
	return exists, err
}

// ApplyChange adds a signed amount to the user's balance and appends a ledger
// entry in one transaction. The (transaction_id, direction) pair is applied at
// most once; repeated calls return the current balance with applied=false.
func (r *WalletRepository) ApplyChange(ctx context.Context, change models.BalanceChange) (balance int64, applied bool, err error) {
	err = r.transactor.WithinTx(ctx, func(ctx context.Context) error {
		profile, err := r.GetProfileForUpdate(ctx, change.UserID)
		if err != nil {
			return err
		}
		balance = profile.WalletBalance

		exists, err := r.HasEntry(ctx, change.TransactionID, change.Direction)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		next := balance + change.Direction.Signed(change.Amount)
		if change.NonNegative && next < 0 {
			return models.ErrInsufficientFunds
		}

		insert := `
			INSERT INTO wallet_balance_entries
				(id, user_id, transaction_id, direction, amount, balance_after, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (transaction_id, direction) DO NOTHING
		`
		entryID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		args := []any{entryID, change.UserID, change.TransactionID, change.Direction, change.Amount, next, change.Description}
		res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, insert, args...)
		var rows int64
		if res != nil {
			rows, _ = res.RowsAffected()
		}
		logQuery(insert, args, rows, err)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}

		update := `
			UPDATE profiles
			SET wallet_balance = $2, updated_at = NOW()
			WHERE user_id = $1
		`
		_, err = executor(ctx, r.db, r.txGetter).ExecContext(ctx, update, change.UserID, next)
		logQuery(update, []any{change.UserID, next}, next, err)
		if err != nil {
			return err
		}

		balance, applied = next, true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return balance, applied, nil
}

// ListEntries returns the most recent ledger entries of a user.
func (r *WalletRepository) ListEntries(ctx context.Context, userID uuid.UUID, limit int) ([]models.BalanceEntry, error) {
	query := `
		SELECT id, user_id, transaction_id, direction, amount, balance_after, description, created_at
		FROM wallet_balance_entries
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
	var entries []models.BalanceEntry
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &entries, query, userID, limit)
	logQuery(query, []any{userID, limit}, len(entries), err)
	return entries, err
}
