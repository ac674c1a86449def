package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType is the ledger category of a wallet transaction.
type TransactionType string

const (
	TypeDeposit      TransactionType = "deposit"
	TypeWithdrawal   TransactionType = "withdrawal"
	TypePayment      TransactionType = "payment"
	TypePayout       TransactionType = "payout"
	TypeSubscription TransactionType = "subscription"
	TypeHiring       TransactionType = "hiring"
)

// Metadata keys stored on wallet transactions.
const (
	MetaPurpose      = "purpose"
	MetaUserID       = "user_id"
	MetaContractID   = "contract_id"
	MetaPeriodDays   = "period_days"
	MetaPreferenceID = "preference_id"
	MetaReason       = "reason"
)

// ErrTransactionNotFound is returned when no wallet transaction matches a lookup.
var ErrTransactionNotFound = errors.New("transaction not found")

// Metadata is a flat string map persisted as jsonb.
type Metadata map[string]string

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("metadata: unsupported type %T", src)
	}
	out := Metadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// WalletTransaction represents a row in wallet_transactions.
type WalletTransaction struct {
	ID                    uuid.UUID         `json:"id" db:"id"`
	UserID                uuid.UUID         `json:"user_id" db:"user_id"`
	Type                  TransactionType   `json:"type" db:"type"`
	Amount                int64             `json:"amount" db:"amount"` // cents
	Status                TransactionStatus `json:"status" db:"status"`
	StatusDetail          string            `json:"status_detail" db:"status_detail"`
	ProviderTransactionID *string           `json:"provider_transaction_id,omitempty" db:"provider_transaction_id"`
	ExternalReference     string            `json:"external_reference" db:"external_reference"`
	PaymentMethodID       string            `json:"payment_method_id" db:"payment_method_id"`
	Description           string            `json:"description" db:"description"`
	Metadata              Metadata          `json:"metadata" db:"metadata"`
	CreatedAt             time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at" db:"updated_at"`
}

// ProviderID returns the provider transaction id or an empty string.
func (t *WalletTransaction) ProviderID() string {
	if t.ProviderTransactionID == nil {
		return ""
	}
	return *t.ProviderTransactionID
}

// Purpose returns the purpose recorded in metadata, falling back to the type.
func (t *WalletTransaction) Purpose() Purpose {
	if p, err := ParsePurpose(t.Metadata[MetaPurpose]); err == nil {
		return p
	}
	switch t.Type {
	case TypeHiring:
		return PurposeHiringPayment
	case TypeSubscription:
		return PurposeSubscriptionPayment
	}
	return PurposeWalletDeposit
}

// ErrContractNotFound is returned when a hiring contract referenced by a payment does not exist.
var ErrContractNotFound = errors.New("contract not found")
