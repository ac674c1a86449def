package models

import (
	"strings"
)

// TransactionStatus is the internal status of a wallet transaction.
type TransactionStatus string

const (
	StatusPending           TransactionStatus = "pending"
	StatusPendingWithdrawal TransactionStatus = "pending_withdrawal"
	StatusApproved          TransactionStatus = "approved"
	StatusRejected          TransactionStatus = "rejected"
	StatusCancelled         TransactionStatus = "cancelled"
	StatusRefunded          TransactionStatus = "refunded"
)

// IsTerminal reports whether no further transition except a refund is possible.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// ParseStatus parses an internal status, accepting the legacy aliases
// "completed" and "failed".
func ParseStatus(s string) (TransactionStatus, bool) {
	switch v := TransactionStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusPending, StatusPendingWithdrawal, StatusApproved,
		StatusRejected, StatusCancelled, StatusRefunded:
		return v, true
	case "completed":
		return StatusApproved, true
	case "failed":
		return StatusRejected, true
	}
	return "", false
}

// NormalizeProviderStatus maps the gateway status vocabulary to the internal
// enum. Unknown values map to pending and known is false so the caller can
// alert on them.
func NormalizeProviderStatus(providerStatus string) (status TransactionStatus, known bool) {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "approved":
		return StatusApproved, true
	case "pending", "in_process", "authorized":
		return StatusPending, true
	case "rejected":
		return StatusRejected, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	case "refunded":
		return StatusRefunded, true
	}
	// Disputes and chargebacks, "in_mediation" and "charged_back", fall
	// through as unknown and are settled by an operator.
	return StatusPending, false
}
