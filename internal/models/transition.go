package models

import (
	"strconv"
)

// DefaultSubscriptionPeriodDays is used when a subscription payment carries no period.
const DefaultSubscriptionPeriodDays = 30

// ContractAction is the hiring contract update attached to a transition.
type ContractAction string

const (
	ContractNone     ContractAction = ""
	ContractFunded   ContractAction = "funded"
	ContractRefunded ContractAction = "refunded"
)

// BalanceOp is the balance side effect of a transition.
type BalanceOp struct {
	Direction   Direction
	Amount      int64
	NonNegative bool
	// Reversal applies only when an entry in the opposite direction exists
	// for the same transaction.
	Reversal bool
}

// Transition is the planned effect of moving a transaction to a new status.
type Transition struct {
	From             TransactionStatus
	To               TransactionStatus
	Noop             bool
	Balance          *BalanceOp
	SubscriptionDays int // signed; positive extends, negative shortens
	Contract         ContractAction
}

// PlanTransition decides what applying status `to` to tx means. Arrivals on
// the current status, on an absorbing status, or into a status unreachable
// from the current one are no-ops.
func PlanTransition(tx *WalletTransaction, to TransactionStatus) Transition {
	t := Transition{From: tx.Status, To: to}
	if !allowed(tx.Status, to) {
		t.Noop = true
		return t
	}

	switch {
	case tx.Status == StatusPending && to == StatusApproved:
		switch tx.Type {
		case TypeDeposit, TypePayout:
			t.Balance = &BalanceOp{Direction: Credit, Amount: tx.Amount}
		case TypeWithdrawal:
			t.Balance = &BalanceOp{Direction: Debit, Amount: tx.Amount, NonNegative: true}
		case TypeSubscription:
			t.SubscriptionDays = PeriodDays(tx)
		case TypeHiring:
			t.Contract = ContractFunded
		}

	case tx.Status == StatusPending:
		if tx.Type == TypeWithdrawal {
			t.Balance = &BalanceOp{Direction: Credit, Amount: tx.Amount, Reversal: true}
		}

	case tx.Status == StatusPendingWithdrawal && to == StatusApproved:
		// The reservation debit normally exists already; this re-applies it
		// under the non-negative guard when it does not.
		t.Balance = &BalanceOp{Direction: Debit, Amount: tx.Amount, NonNegative: true}

	case tx.Status == StatusPendingWithdrawal:
		t.Balance = &BalanceOp{Direction: Credit, Amount: tx.Amount, Reversal: true}

	case tx.Status == StatusApproved && to == StatusRefunded:
		switch tx.Type {
		case TypeDeposit, TypePayout:
			t.Balance = &BalanceOp{Direction: Debit, Amount: tx.Amount, Reversal: true}
		case TypeWithdrawal:
			t.Balance = &BalanceOp{Direction: Credit, Amount: tx.Amount, Reversal: true}
		case TypeSubscription:
			t.SubscriptionDays = -PeriodDays(tx)
		case TypeHiring:
			t.Contract = ContractRefunded
		}
	}
	return t
}

func allowed(from, to TransactionStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled || to == StatusRefunded
	case StatusPendingWithdrawal:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled
	case StatusApproved:
		return to == StatusRefunded
	}
	return false
}

// PeriodDays returns the paid subscription period recorded on tx.
func PeriodDays(tx *WalletTransaction) int {
	if v, err := strconv.Atoi(tx.Metadata[MetaPeriodDays]); err == nil && v > 0 {
		return v
	}
	return DefaultSubscriptionPeriodDays
}
