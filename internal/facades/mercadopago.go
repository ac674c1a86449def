package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/metrics"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// ErrGatewayUnavailable wraps every non-2xx or transport failure from the gateway.
var ErrGatewayUnavailable = errors.New("payment gateway request failed")

// ErrPaymentNotFound is returned when the gateway has no payment for a lookup.
var ErrPaymentNotFound = errors.New("payment not found at gateway")

// MercadoPagoFacade talks to the Mercado Pago REST API.
type MercadoPagoFacade struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// NewMercadoPagoFacade creates a facade for the given API base URL and access token.
func NewMercadoPagoFacade(baseURL, accessToken string, client *http.Client) *MercadoPagoFacade {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &MercadoPagoFacade{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		client:      client,
	}
}

// CreatePreference creates a checkout preference. The external reference is
// sent as idempotency key so a retried call does not create a second preference.
func (f *MercadoPagoFacade) CreatePreference(ctx context.Context, req models.PreferenceRequest) (*models.PreferenceResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var res models.PreferenceResult
	headers := map[string]string{"X-Idempotency-Key": req.ExternalReference}
	if err := f.do(ctx, http.MethodPost, "/checkout/preferences", bytes.NewReader(body), headers, &res); err != nil {
		logger.FromContext(ctx).Errorw("failed to create preference", "external_reference", req.ExternalReference, "error", err)
		return nil, err
	}
	if res.ID == "" {
		return nil, fmt.Errorf("%w: preference response without id", ErrGatewayUnavailable)
	}
	return &res, nil
}

// paymentResponse is the subset of the payment resource we read.
type paymentResponse struct {
	ID                json.Number     `json:"id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	ExternalReference string          `json:"external_reference"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	PaymentMethodID   string          `json:"payment_method_id"`
	Description       string          `json:"description"`
	Metadata          map[string]any  `json:"metadata"`
}

func (p paymentResponse) toInfo() *models.PaymentInfo {
	meta := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		switch val := v.(type) {
		case string:
			meta[k] = val
		case nil:
		default:
			meta[k] = fmt.Sprint(val)
		}
	}
	return &models.PaymentInfo{
		ID:                p.ID.String(),
		Status:            p.Status,
		StatusDetail:      p.StatusDetail,
		ExternalReference: p.ExternalReference,
		TransactionAmount: p.TransactionAmount,
		PaymentMethodID:   p.PaymentMethodID,
		Description:       p.Description,
		Metadata:          meta,
	}
}

// GetPayment fetches a payment by its gateway id.
func (f *MercadoPagoFacade) GetPayment(ctx context.Context, paymentID string) (*models.PaymentInfo, error) {
	var res paymentResponse
	if err := f.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, nil, &res); err != nil {
		logger.FromContext(ctx).Errorw("failed to fetch payment", "payment_id", paymentID, "error", err)
		return nil, err
	}
	return res.toInfo(), nil
}

// SearchPaymentByExternalReference returns the latest payment created for an
// external reference.
func (f *MercadoPagoFacade) SearchPaymentByExternalReference(ctx context.Context, ref string) (*models.PaymentInfo, error) {
	q := url.Values{}
	q.Set("external_reference", ref)
	q.Set("sort", "date_created")
	q.Set("criteria", "desc")
	q.Set("limit", "1")

	var res struct {
		Results []paymentResponse `json:"results"`
	}
	if err := f.do(ctx, http.MethodGet, "/v1/payments/search?"+q.Encode(), nil, nil, &res); err != nil {
		logger.FromContext(ctx).Errorw("failed to search payments", "external_reference", ref, "error", err)
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, ErrPaymentNotFound
	}
	return res.Results[0].toInfo(), nil
}

func (f *MercadoPagoFacade) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string, out any) error {
	if f.accessToken == "" {
		return fmt.Errorf("%w: missing access token", ErrGatewayUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+f.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.GatewayLatency.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	logger.FromContext(ctx).Infow("gateway request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode == http.StatusNotFound {
		return ErrPaymentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrGatewayUnavailable, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrGatewayUnavailable, err)
	}
	return nil
}
