package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/metrics"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

const maxWebhookBody = 1 << 20

// WebhookResponse acknowledges a notification
// swagger:model WebhookResponse
type WebhookResponse struct {
	Received bool   `json:"received"`
	Kind     string `json:"kind,omitempty"`
}

// NewWebhookHandler returns an HTTP handler for gateway notifications.
// @Summary Gateway webhook
// @Description Accepts payment notifications (JSON push, IPN query or direct status payload). Well-formed notifications are always acknowledged; processing failures are logged.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param purpose path string true "wallet_deposit, hiring_payment or subscription_payment"
// @Success 200 {object} handlers.WebhookResponse
// @Failure 400 {object} handlers.ErrorResponse "Malformed payload"
// @Failure 404 {object} handlers.ErrorResponse "Unknown purpose"
// @Router /webhooks/mercadopago/{purpose} [post]
func NewWebhookHandler(svc NotificationIngester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		purpose, err := models.ParsePurpose(chi.URLParam(r, "purpose"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Unknown webhook")
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unreadable body")
			return
		}

		n, err := models.ParseWebhook(body, r.URL.Query())
		if err != nil {
			metrics.WebhooksReceived.WithLabelValues("malformed", "rejected").Inc()
			log.Warnw("malformed webhook", "purpose", purpose, "body", string(body), "query", r.URL.RawQuery, "error", err)
			writeError(w, http.StatusBadRequest, "Malformed webhook payload")
			return
		}

		if _, err := svc.Ingest(ctx, purpose, n); err != nil {
			log.Errorw("webhook processing failed",
				"purpose", purpose, "kind", n.Kind, "provider_id", n.ProviderID,
				"external_reference", n.ExternalReference, "error", err)
		}

		writeJSON(w, http.StatusOK, WebhookResponse{Received: true, Kind: string(n.Kind)})
	}
}
