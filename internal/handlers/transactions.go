package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// TransactionReader reads a user's transactions.
type TransactionReader interface {
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error)
	GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.WalletTransaction, error)
}

// TransactionListResponse is a page of transactions
// swagger:model TransactionListResponse
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// NewListTransactionsHandler returns an HTTP handler listing the user's transactions.
// @Summary List transactions
// @Tags wallet
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} handlers.TransactionListResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /wallet/transactions [get]
// @Security BearerAuth
func NewListTransactionsHandler(svc TransactionReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		limit, offset := queryInt(r, "limit", 20), queryInt(r, "offset", 0)
		txs, err := svc.ListTransactions(r.Context(), claims.UserID, limit, offset)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		resp := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txs)), Limit: limit, Offset: offset}
		for i := range txs {
			resp.Transactions = append(resp.Transactions, newTransactionResponse(&txs[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// NewGetTransactionHandler returns an HTTP handler for polling one transaction.
// @Summary Get transaction
// @Tags wallet
// @Produce json
// @Param id path string true "Transaction id"
// @Success 200 {object} handlers.TransactionResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Router /wallet/transactions/{id} [get]
// @Security BearerAuth
func NewGetTransactionHandler(svc TransactionReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		tx, err := svc.GetTransaction(r.Context(), claims.UserID, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTransactionResponse(tx))
	}
}
