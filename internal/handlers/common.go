package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/config"
	"github.com/sbilibin2017/gw-payment-ledger/internal/facades"
	"github.com/sbilibin2017/gw-payment-ledger/internal/jwt"
	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
	"github.com/sbilibin2017/gw-payment-ledger/internal/services"
)

// Tokener defines only the token methods needed by the handlers.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Invalid amount
	Error string `json:"error"`
}

// TransactionResponse is the public view of a wallet transaction
// swagger:model TransactionResponse
type TransactionResponse struct {
	ID                string            `json:"id"`
	Type              string            `json:"type"`
	Status            string            `json:"status"`
	StatusDetail      string            `json:"status_detail,omitempty"`
	Amount            string            `json:"amount"`
	AmountCents       int64             `json:"amount_cents"`
	ExternalReference string            `json:"external_reference"`
	PaymentMethodID   string            `json:"payment_method_id,omitempty"`
	Description       string            `json:"description,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func newTransactionResponse(tx *models.WalletTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                tx.ID.String(),
		Type:              string(tx.Type),
		Status:            string(tx.Status),
		StatusDetail:      tx.StatusDetail,
		Amount:            models.FormatCents(tx.Amount),
		AmountCents:       tx.Amount,
		ExternalReference: tx.ExternalReference,
		PaymentMethodID:   tx.PaymentMethodID,
		Description:       tx.Description,
		Metadata:          tx.Metadata,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}

// ReconcileResponse reports the result of a status change
// swagger:model ReconcileResponse
type ReconcileResponse struct {
	Applied     bool                `json:"applied"`
	From        string              `json:"from,omitempty"`
	Transaction TransactionResponse `json:"transaction"`
	// Balance after the change, when the balance was touched
	Balance *string `json:"balance,omitempty"`
}

func newReconcileResponse(out *services.Outcome) ReconcileResponse {
	resp := ReconcileResponse{Applied: out.Applied, From: string(out.From)}
	if out.Transaction != nil {
		resp.Transaction = newTransactionResponse(out.Transaction)
	}
	if out.Balance != nil {
		b := models.FormatCents(*out.Balance)
		resp.Balance = &b
	}
	return resp
}

// decodeOptional decodes a JSON body that may be absent.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// authorize returns the caller's claims or writes 401.
func authorize(w http.ResponseWriter, r *http.Request, tokener Tokener) (*jwt.Claims, bool) {
	ctx := r.Context()

	tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get token from request", "error", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	claims, err := tokener.GetClaims(ctx, tokenStr)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get claims from token", "error", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return claims, true
}

// uuidParam parses a UUID route parameter or writes 400.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		status, msg = http.StatusBadRequest, "Invalid amount"
	case errors.Is(err, models.ErrInvalidPurpose):
		status, msg = http.StatusBadRequest, "Invalid payment purpose"
	case errors.Is(err, services.ErrMissingPayerEmail):
		status, msg = http.StatusBadRequest, "Payer email is required"
	case errors.Is(err, models.ErrInvalidPixKey):
		status, msg = http.StatusBadRequest, "Invalid PIX key"
	case errors.Is(err, models.ErrMissingDocuments):
		status, msg = http.StatusBadRequest, "Missing verification documents"
	case errors.Is(err, services.ErrInsufficientFunds):
		status, msg = http.StatusUnprocessableEntity, "Insufficient funds"
	case errors.Is(err, services.ErrNotVerified):
		status, msg = http.StatusForbidden, "Identity not verified"
	case errors.Is(err, services.ErrMissingPixKey):
		status, msg = http.StatusForbidden, "PIX key not registered"
	case errors.Is(err, models.ErrTransactionNotFound), errors.Is(err, models.ErrProfileNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, models.ErrInvalidVerificationTransition):
		status, msg = http.StatusConflict, "Invalid verification transition"
	case errors.Is(err, services.ErrWithdrawalNotPending):
		status, msg = http.StatusConflict, "Withdrawal is not pending"
	case errors.Is(err, services.ErrDuplicateReference):
		status, msg = http.StatusConflict, "External reference already in use"
	case errors.Is(err, services.ErrPaymentMismatch), errors.Is(err, services.ErrOrphanedPayment):
		status, msg = http.StatusConflict, "Payment needs manual review"
	case errors.Is(err, services.ErrReconcileInProgress):
		status, msg = http.StatusConflict, "Reconciliation in progress, retry shortly"
	case errors.Is(err, config.ErrMissingCredentials):
		status, msg = http.StatusServiceUnavailable, "Payment gateway not configured"
	case errors.Is(err, facades.ErrGatewayUnavailable):
		status, msg = http.StatusBadGateway, "Payment gateway error"
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Errorw("request failed", "uri", r.RequestURI, "error", err)
	} else {
		logger.FromContext(r.Context()).Warnw("request refused", "uri", r.RequestURI, "status", status, "error", err)
	}
	writeError(w, status, msg)
}
