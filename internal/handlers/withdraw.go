package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
	"github.com/sbilibin2017/gw-payment-ledger/internal/services"
)

// WithdrawalRequester lets users request and cancel withdrawals.
type WithdrawalRequester interface {
	Request(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.WalletTransaction, int64, error)
	Cancel(ctx context.Context, userID, transactionID uuid.UUID) (*services.Outcome, error)
}

// WithdrawalReviewer lets admins settle withdrawals.
type WithdrawalReviewer interface {
	Approve(ctx context.Context, adminID, transactionID uuid.UUID) (*services.Outcome, error)
	Reject(ctx context.Context, adminID, transactionID uuid.UUID, reason string) (*services.Outcome, error)
}

// WithdrawRequest represents the JSON body for withdrawing funds
// swagger:model WithdrawRequest
type WithdrawRequest struct {
	// Amount to withdraw in BRL
	// required: true
	// default: 50.00
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	// Optional description
	Description string `json:"description,omitempty"`
}

// WithdrawResponse represents a successful withdrawal request
// swagger:model WithdrawResponse
type WithdrawResponse struct {
	// Success message
	// default: Withdrawal requested
	Message string `json:"message"`

	// Balance after the reservation
	NewBalance string `json:"new_balance"`

	Transaction TransactionResponse `json:"transaction"`
}

// NewWithdrawHandler returns an HTTP handler for requesting a PIX withdrawal.
// @Summary Withdraw funds
// @Description Reserves the amount from the wallet and records a pending withdrawal to the user's PIX key. Requires a verified identity.
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body handlers.WithdrawRequest true "Withdraw Request"
// @Success 201 {object} handlers.WithdrawResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid amount"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Identity not verified or PIX key missing"
// @Failure 422 {object} handlers.ErrorResponse "Insufficient funds"
// @Router /wallet/withdrawals [post]
// @Security BearerAuth
func NewWithdrawHandler(svc WithdrawalRequester, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		var req WithdrawRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.FromContext(r.Context()).Errorw("failed to decode withdraw request", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		amount, err := models.ToCents(req.Amount)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		tx, balance, err := svc.Request(r.Context(), claims.UserID, amount, req.Description)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, WithdrawResponse{
			Message:     "Withdrawal requested",
			NewBalance:  models.FormatCents(balance),
			Transaction: newTransactionResponse(tx),
		})
	}
}

// NewCancelWithdrawalHandler returns an HTTP handler for cancelling an own pending withdrawal.
// @Summary Cancel withdrawal
// @Tags wallet
// @Produce json
// @Param id path string true "Transaction id"
// @Success 200 {object} handlers.ReconcileResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Failure 409 {object} handlers.ErrorResponse "Withdrawal is not pending"
// @Router /wallet/withdrawals/{id}/cancel [post]
// @Security BearerAuth
func NewCancelWithdrawalHandler(svc WithdrawalRequester, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		out, err := svc.Cancel(r.Context(), claims.UserID, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newReconcileResponse(out))
	}
}

// ReviewRequest carries an optional reason for admin reviews
// swagger:model ReviewRequest
type ReviewRequest struct {
	Reason string `json:"reason,omitempty"`
}

// NewReviewWithdrawalHandler returns an HTTP handler for admins approving or rejecting withdrawals.
// @Summary Review withdrawal
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Transaction id"
// @Param action path string true "approve or reject"
// @Param request body handlers.ReviewRequest false "Rejection reason"
// @Success 200 {object} handlers.ReconcileResponse
// @Failure 400 {object} handlers.ErrorResponse "Unknown action"
// @Failure 403 {object} handlers.ErrorResponse "Forbidden"
// @Failure 409 {object} handlers.ErrorResponse "Withdrawal is not pending"
// @Failure 422 {object} handlers.ErrorResponse "Insufficient funds"
// @Router /admin/withdrawals/{id}/{action} [post]
// @Security BearerAuth
func NewReviewWithdrawalHandler(svc WithdrawalReviewer, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		var req ReviewRequest
		if err := decodeOptional(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var (
			out *services.Outcome
			err error
		)
		switch chi.URLParam(r, "action") {
		case "approve":
			out, err = svc.Approve(r.Context(), claims.UserID, id)
		case "reject":
			out, err = svc.Reject(r.Context(), claims.UserID, id, req.Reason)
		default:
			writeError(w, http.StatusBadRequest, "Unknown action")
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newReconcileResponse(out))
	}
}
