package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-payment-ledger/internal/facades"
	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
	"github.com/sbilibin2017/gw-payment-ledger/internal/services"
)

// PreferenceCreator starts gateway checkouts.
type PreferenceCreator interface {
	Checkout(ctx context.Context, in services.PreferenceInput, email string) (*services.CheckoutResult, error)
}

// NotificationIngester processes gateway notifications.
type NotificationIngester interface {
	Ingest(ctx context.Context, purpose models.Purpose, n models.StatusNotification) (*services.IngestResult, error)
}

// PaymentVerifier reconciles a transaction against the gateway on demand.
type PaymentVerifier interface {
	Verify(ctx context.Context, userID, transactionID uuid.UUID) (*models.WalletTransaction, error)
}

// CreatePreferenceRequest represents the JSON body for starting a checkout
// swagger:model CreatePreferenceRequest
type CreatePreferenceRequest struct {
	// Payment purpose: wallet_deposit, hiring_payment or subscription_payment
	// required: true
	// default: wallet_deposit
	Purpose string `json:"purpose"`

	// Amount in BRL with at most two decimals; subscriptions must match the configured price
	// required: true
	// default: 100.00
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`

	// Item description
	Description string `json:"description,omitempty"`

	// Payer; the service payer is used when omitted
	Payer *models.Payer `json:"payer,omitempty"`

	// Hiring contract paid by this checkout
	ContractID string `json:"contract_id,omitempty"`

	// Extra metadata forwarded to the gateway
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreatePreferenceResponse represents a created checkout
// swagger:model CreatePreferenceResponse
type CreatePreferenceResponse struct {
	TransactionID     string `json:"transaction_id"`
	PreferenceID      string `json:"preference_id"`
	RedirectURL       string `json:"redirect_url"`
	ExternalReference string `json:"external_reference"`
	PublicKey         string `json:"public_key,omitempty"`
}

// NewCreatePreferenceHandler returns an HTTP handler that starts a gateway checkout.
// @Summary Create checkout preference
// @Description Builds a checkout for a deposit, hiring or subscription payment, creates it at the gateway and records a pending transaction.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body handlers.CreatePreferenceRequest true "Checkout request"
// @Success 201 {object} handlers.CreatePreferenceResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid amount, purpose or payer"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 502 {object} handlers.ErrorResponse "Payment gateway error"
// @Failure 503 {object} handlers.ErrorResponse "Payment gateway not configured"
// @Router /payments/preferences [post]
// @Security BearerAuth
func NewCreatePreferenceHandler(svc PreferenceCreator, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		var req CreatePreferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.FromContext(r.Context()).Errorw("failed to decode preference request", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		purpose, err := models.ParsePurpose(req.Purpose)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		amount, err := models.ToCents(req.Amount)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		metadata := make(map[string]string, len(req.Metadata)+2)
		for k, v := range req.Metadata {
			metadata[k] = v
		}
		if req.ContractID != "" {
			if _, err := uuid.Parse(req.ContractID); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid contract_id")
				return
			}
			metadata[models.MetaContractID] = req.ContractID
		}

		result, err := svc.Checkout(r.Context(), services.PreferenceInput{
			Purpose:     purpose,
			UserID:      claims.UserID,
			Amount:      amount,
			Description: req.Description,
			Payer:       req.Payer,
			Metadata:    metadata,
		}, claims.Email)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreatePreferenceResponse{
			TransactionID:     result.TransactionID.String(),
			PreferenceID:      result.PreferenceID,
			RedirectURL:       result.RedirectURL,
			ExternalReference: result.ExternalReference,
			PublicKey:         result.PublicKey,
		})
	}
}

// PaymentReturnResponse reports the state of a payment after a browser redirect
// swagger:model PaymentReturnResponse
type PaymentReturnResponse struct {
	Status      string               `json:"status"`
	Applied     bool                 `json:"applied"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// NewPaymentReturnHandler returns an HTTP handler for the gateway's browser redirect.
// @Summary Payment return
// @Description Reconciles the payment named by the redirect query parameters. The status is always re-read from the gateway.
// @Tags payments
// @Produce json
// @Param payment_id query string false "Gateway payment id"
// @Param collection_id query string false "Gateway payment id (legacy)"
// @Param payment_status query string false "Payment status"
// @Param external_reference query string false "External reference"
// @Success 200 {object} handlers.PaymentReturnResponse
// @Failure 400 {object} handlers.ErrorResponse "Malformed redirect"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /payments/return [get]
// @Security BearerAuth
func NewPaymentReturnHandler(svc NotificationIngester, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		n, err := models.ParseRedirect(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, "Malformed redirect parameters")
			return
		}

		result, err := svc.Ingest(r.Context(), models.PurposeWalletDeposit, n)
		if errors.Is(err, facades.ErrPaymentNotFound) {
			writeJSON(w, http.StatusOK, PaymentReturnResponse{Status: string(models.StatusPending)})
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		resp := PaymentReturnResponse{Status: string(result.Status)}
		if out := result.Outcome; out != nil && out.Transaction != nil {
			if out.Transaction.UserID != claims.UserID {
				writeError(w, http.StatusNotFound, "Not found")
				return
			}
			tx := newTransactionResponse(out.Transaction)
			resp.Applied = out.Applied
			resp.Status = tx.Status
			resp.Transaction = &tx
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// NewVerifyPaymentHandler returns an HTTP handler that polls the gateway for a transaction.
// @Summary Verify payment status
// @Description Reads the payment behind a transaction from the gateway and reconciles it.
// @Tags payments
// @Produce json
// @Param id path string true "Transaction id"
// @Success 200 {object} handlers.TransactionResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Failure 502 {object} handlers.ErrorResponse "Payment gateway error"
// @Router /payments/{id}/verify [post]
// @Security BearerAuth
func NewVerifyPaymentHandler(svc PaymentVerifier, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		tx, err := svc.Verify(r.Context(), claims.UserID, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTransactionResponse(tx))
	}
}
