package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// BalanceReader defines the interface that the service must implement.
type BalanceReader interface {
	GetUserBalance(ctx context.Context, userID uuid.UUID, email string) (int64, error)
}

// BalanceResponse represents a successful balance response
// swagger:model BalanceResponse
type BalanceResponse struct {
	// Balance in BRL
	// default: 100.00
	Balance string `json:"balance"`

	// Balance in cents
	// default: 10000
	BalanceCents int64 `json:"balance_cents"`
}

// NewBalanceHandler returns an HTTP handler for fetching user balance.
// @Summary Get user balance
// @Description Returns the wallet balance of the authenticated user
// @Tags wallet
// @Produce json
// @Success 200 {object} handlers.BalanceResponse "User balance"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /wallet/balance [get]
// @Security BearerAuth
func NewBalanceHandler(svc BalanceReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		balance, err := svc.GetUserBalance(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, BalanceResponse{
			Balance:      models.FormatCents(balance),
			BalanceCents: balance,
		})
	}
}
