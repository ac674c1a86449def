package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
	"github.com/sbilibin2017/gw-payment-ledger/internal/services"
)

// PayoutCreator credits payouts to wallets.
type PayoutCreator interface {
	Create(ctx context.Context, adminID, userID uuid.UUID, amount int64, description string) (*services.Outcome, error)
}

// CreatePayoutRequest represents an incoming payout
// swagger:model CreatePayoutRequest
type CreatePayoutRequest struct {
	// Receiving user
	// required: true
	UserID string `json:"user_id"`

	// Amount in BRL
	// required: true
	// default: 150.00
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	Description string `json:"description,omitempty"`
}

// NewCreatePayoutHandler returns an HTTP handler for admins crediting a payout.
// @Summary Create payout
// @Tags admin
// @Accept json
// @Produce json
// @Param request body handlers.CreatePayoutRequest true "Payout"
// @Success 201 {object} handlers.ReconcileResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid user or amount"
// @Failure 403 {object} handlers.ErrorResponse "Forbidden"
// @Router /admin/payouts [post]
// @Security BearerAuth
func NewCreatePayoutHandler(svc PayoutCreator, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		var req CreatePayoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user_id")
			return
		}
		amount, err := models.ToCents(req.Amount)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out, err := svc.Create(r.Context(), claims.UserID, userID, amount, req.Description)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, newReconcileResponse(out))
	}
}
