package models

// Transaction is the ledger event published to Kafka after a transition is applied.
type Transaction struct {
	TransactionID     string `json:"transaction_id"`     // Internal wallet transaction id.
	ExternalReference string `json:"external_reference"` // Correlation key shared with the gateway.
	Timestamp         int64  `json:"timestamp"`          // Unix seconds of the transition.
	Amount            int64  `json:"amount"`             // Cents.
	UserID            string `json:"user_id"`            // Owner of the transaction.
	Operation         string `json:"operation"`          // Transaction type, e.g. "deposit" or "withdrawal".
	Status            string `json:"status"`             // Status reached.
	PreviousStatus    string `json:"previous_status"`    // Status before the transition.
	BalanceAfter      *int64 `json:"balance_after,omitempty"`
}
