package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
	"github.com/sbilibin2017/gw-payment-ledger/internal/services"
)

// VerificationManager runs the user side of identity verification.
type VerificationManager interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error)
	Submit(ctx context.Context, userID uuid.UUID, in services.VerificationSubmission) (*models.VerificationRecord, error)
	UpdatePixKey(ctx context.Context, userID uuid.UUID, keyType models.PixKeyType, key string) (*models.VerificationRecord, error)
}

// VerificationReviewer runs the admin side of identity verification.
type VerificationReviewer interface {
	Review(ctx context.Context, adminID, userID uuid.UUID, action models.VerificationAction, reason string) (*models.VerificationRecord, error)
}

// VerificationResponse is the public view of a verification record
// swagger:model VerificationResponse
type VerificationResponse struct {
	UserID          string     `json:"user_id"`
	Status          string     `json:"status"`
	PixKey          string     `json:"pix_key,omitempty"`
	PixKeyType      string     `json:"pix_key_type,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CanWithdraw     bool       `json:"can_withdraw"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
}

func newVerificationResponse(v *models.VerificationRecord) VerificationResponse {
	return VerificationResponse{
		UserID:          v.UserID.String(),
		Status:          string(v.Status),
		PixKey:          v.PixKey,
		PixKeyType:      string(v.PixKeyType),
		RejectionReason: v.RejectionReason,
		CanWithdraw:     v.CanWithdraw(),
		ReviewedAt:      v.ReviewedAt,
	}
}

// SubmitVerificationRequest carries document references and the PIX key
// swagger:model SubmitVerificationRequest
type SubmitVerificationRequest struct {
	// Storage reference of the document front
	// required: true
	DocumentFront string `json:"document_front"`
	// Storage reference of the document back
	DocumentBack string `json:"document_back,omitempty"`
	// Storage reference of the selfie
	// required: true
	Selfie string `json:"selfie"`
	// required: true
	PixKey string `json:"pix_key"`
	// cpf, cnpj, email, phone or random
	// required: true
	PixKeyType string `json:"pix_key_type"`
}

// PixKeyRequest updates the PIX key
// swagger:model PixKeyRequest
type PixKeyRequest struct {
	PixKey     string `json:"pix_key"`
	PixKeyType string `json:"pix_key_type"`
}

// NewGetVerificationHandler returns an HTTP handler for reading the own verification record.
// @Summary Get verification
// @Tags verification
// @Produce json
// @Success 200 {object} handlers.VerificationResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /verification [get]
// @Security BearerAuth
func NewGetVerificationHandler(svc VerificationManager, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		record, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newVerificationResponse(record))
	}
}

// NewSubmitVerificationHandler returns an HTTP handler for submitting identity documents.
// @Summary Submit verification
// @Tags verification
// @Accept json
// @Produce json
// @Param request body handlers.SubmitVerificationRequest true "Documents and PIX key"
// @Success 200 {object} handlers.VerificationResponse
// @Failure 400 {object} handlers.ErrorResponse "Missing documents or invalid PIX key"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 409 {object} handlers.ErrorResponse "Invalid verification transition"
// @Router /verification [post]
// @Security BearerAuth
func NewSubmitVerificationHandler(svc VerificationManager, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		var req SubmitVerificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		record, err := svc.Submit(r.Context(), claims.UserID, services.VerificationSubmission{
			DocumentFront: req.DocumentFront,
			DocumentBack:  req.DocumentBack,
			Selfie:        req.Selfie,
			PixKey:        req.PixKey,
			PixKeyType:    models.PixKeyType(req.PixKeyType),
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newVerificationResponse(record))
	}
}

// NewUpdatePixKeyHandler returns an HTTP handler for replacing the PIX key.
// @Summary Update PIX key
// @Tags verification
// @Accept json
// @Produce json
// @Param request body handlers.PixKeyRequest true "PIX key"
// @Success 200 {object} handlers.VerificationResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid PIX key"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /verification/pix-key [put]
// @Security BearerAuth
func NewUpdatePixKeyHandler(svc VerificationManager, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		var req PixKeyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		record, err := svc.UpdatePixKey(r.Context(), claims.UserID, models.PixKeyType(req.PixKeyType), req.PixKey)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newVerificationResponse(record))
	}
}

// NewReviewVerificationHandler returns an HTTP handler for admin verification actions.
// @Summary Review verification
// @Tags admin
// @Accept json
// @Produce json
// @Param userID path string true "User id"
// @Param action path string true "approve, reject, revoke or reopen"
// @Param request body handlers.ReviewRequest false "Reason"
// @Success 200 {object} handlers.VerificationResponse
// @Failure 400 {object} handlers.ErrorResponse "Unknown action"
// @Failure 403 {object} handlers.ErrorResponse "Forbidden"
// @Failure 409 {object} handlers.ErrorResponse "Invalid verification transition"
// @Router /admin/verifications/{userID}/{action} [post]
// @Security BearerAuth
func NewReviewVerificationHandler(svc VerificationReviewer, tokener Tokener) http.HandlerFunc {
	actions := map[string]models.VerificationAction{
		"approve": models.ActionApprove,
		"reject":  models.ActionReject,
		"revoke":  models.ActionRevoke,
		"reopen":  models.ActionReopen,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}
		userID, ok := uuidParam(w, r, "userID")
		if !ok {
			return
		}
		action, ok := actions[chi.URLParam(r, "action")]
		if !ok {
			writeError(w, http.StatusBadRequest, "Unknown action")
			return
		}

		var req ReviewRequest
		if err := decodeOptional(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		record, err := svc.Review(r.Context(), claims.UserID, userID, action, req.Reason)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newVerificationResponse(record))
	}
}
