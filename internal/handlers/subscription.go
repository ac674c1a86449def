package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/services"
)

// SubscriptionReader serves the subscription state of a user.
type SubscriptionReader interface {
	SmartStatus(ctx context.Context, userID uuid.UUID) (*services.SubscriptionStatus, error)
	Sync(ctx context.Context, userID uuid.UUID) (*services.SubscriptionStatus, error)
}

// ExpirySweeper runs the scheduled expiry sweeps.
type ExpirySweeper interface {
	ExpireSubscriptions(ctx context.Context) ([]uuid.UUID, error)
	ExpireJobs(ctx context.Context) (int64, error)
}

// SubscriptionResponse is the derived subscription state
// swagger:model SubscriptionResponse
type SubscriptionResponse struct {
	// none or pro
	Type          string     `json:"subscription_type"`
	ExpiresAt     *time.Time `json:"subscription_expires_at,omitempty"`
	Active        bool       `json:"active"`
	DaysRemaining int        `json:"days_remaining"`
	Corrected     bool       `json:"corrected"`
}

func newSubscriptionResponse(s *services.SubscriptionStatus) SubscriptionResponse {
	return SubscriptionResponse{
		Type:          string(s.Type),
		ExpiresAt:     s.ExpiresAt,
		Active:        s.Active,
		DaysRemaining: s.DaysRemaining,
		Corrected:     s.Corrected,
	}
}

// SweepResponse reports how many rows a sweep changed
// swagger:model SweepResponse
type SweepResponse struct {
	Expired int64 `json:"expired"`
}

// NewSubscriptionStatusHandler returns an HTTP handler for the smart subscription status.
// @Summary Subscription status
// @Description Returns the subscription derived from its expiry and fixes a drifted stored type.
// @Tags subscription
// @Produce json
// @Success 200 {object} handlers.SubscriptionResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Profile not found"
// @Router /subscription/status [get]
// @Security BearerAuth
func NewSubscriptionStatusHandler(svc SubscriptionReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		status, err := svc.SmartStatus(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newSubscriptionResponse(status))
	}
}

// NewSubscriptionSyncHandler returns an HTTP handler forcing a subscription sync.
// @Summary Sync subscription
// @Description Recomputes the subscription from the latest approved subscription payment.
// @Tags subscription
// @Produce json
// @Success 200 {object} handlers.SubscriptionResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Profile not found"
// @Router /subscription/sync [post]
// @Security BearerAuth
func NewSubscriptionSyncHandler(svc SubscriptionReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		status, err := svc.Sync(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newSubscriptionResponse(status))
	}
}

// NewExpireSubscriptionsHandler returns an HTTP handler for the subscription expiry sweep.
// @Summary Expire subscriptions
// @Tags jobs
// @Produce json
// @Param X-Cron-Token header string true "Cron token"
// @Success 200 {object} handlers.SweepResponse
// @Failure 401 "Invalid cron token"
// @Router /jobs/subscriptions/expire [post]
func NewExpireSubscriptionsHandler(svc ExpirySweeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := svc.ExpireSubscriptions(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, SweepResponse{Expired: int64(len(ids))})
	}
}

// NewExpireJobsHandler returns an HTTP handler for the job expiry sweep.
// @Summary Expire jobs
// @Tags jobs
// @Produce json
// @Param X-Cron-Token header string true "Cron token"
// @Success 200 {object} handlers.SweepResponse
// @Failure 401 "Invalid cron token"
// @Router /jobs/real-jobs/expire [post]
func NewExpireJobsHandler(svc ExpirySweeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.ExpireJobs(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, SweepResponse{Expired: n})
	}
}
