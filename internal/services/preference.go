package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/config"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// ErrMissingPayerEmail is returned when a payer is supplied without an email.
var ErrMissingPayerEmail = errors.New("payer email is required")

// PreferenceInput describes a checkout to build.
type PreferenceInput struct {
	Purpose           models.Purpose
	UserID            uuid.UUID
	Amount            int64 // cents
	Description       string
	Payer             *models.Payer
	Items             []models.PreferenceItem
	Metadata          map[string]string
	ExternalReference string
}

// PreferenceBuilder turns a checkout input into a gateway preference request.
type PreferenceBuilder struct {
	cfg config.Gateway
	now func() time.Time
}

// NewPreferenceBuilder creates a new PreferenceBuilder.
func NewPreferenceBuilder(cfg config.Gateway) *PreferenceBuilder {
	return &PreferenceBuilder{cfg: cfg, now: time.Now}
}

// ExternalReference returns the default correlation key {prefix}_{userID}_{unixMillis}.
func ExternalReference(purpose models.Purpose, userID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", purpose.ReferencePrefix(), userID, at.UnixMilli())
}

// ParseExternalReference splits a default external reference into its purpose and user.
func ParseExternalReference(ref string) (models.Purpose, uuid.UUID, bool) {
	parts := strings.Split(ref, "_")
	if len(parts) != 3 {
		return "", uuid.Nil, false
	}
	purpose, ok := models.PurposeFromReferencePrefix(parts[0])
	if !ok {
		return "", uuid.Nil, false
	}
	userID, err := uuid.Parse(parts[1])
	if err != nil {
		return "", uuid.Nil, false
	}
	return purpose, userID, true
}

// Build validates in and returns the gateway request with its external reference filled in.
func (b *PreferenceBuilder) Build(in PreferenceInput) (models.PreferenceRequest, error) {
	if in.Amount <= 0 {
		return models.PreferenceRequest{}, models.ErrInvalidAmount
	}
	if _, err := models.ParsePurpose(string(in.Purpose)); err != nil {
		return models.PreferenceRequest{}, err
	}
	if in.Purpose == models.PurposeSubscriptionPayment && b.cfg.SubscriptionPriceCents > 0 && in.Amount != b.cfg.SubscriptionPriceCents {
		return models.PreferenceRequest{}, fmt.Errorf("subscription costs %d cents, got %d: %w",
			b.cfg.SubscriptionPriceCents, in.Amount, models.ErrInvalidAmount)
	}
	if _, err := b.cfg.AccessTokenOrErr(); err != nil {
		return models.PreferenceRequest{}, err
	}

	payer := models.Payer{Email: b.cfg.DefaultPayerEmail}
	if in.Payer != nil {
		if strings.TrimSpace(in.Payer.Email) == "" {
			return models.PreferenceRequest{}, ErrMissingPayerEmail
		}
		payer = *in.Payer
	}

	ref := in.ExternalReference
	if ref == "" {
		ref = ExternalReference(in.Purpose, in.UserID, b.now())
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = defaultDescription(in.Purpose)
	}

	items := in.Items
	if len(items) == 0 {
		items = []models.PreferenceItem{{
			ID:          ref,
			Title:       description,
			Description: description,
			Quantity:    1,
			UnitPrice:   models.FromCents(in.Amount).InexactFloat64(),
		}}
	}
	for i := range items {
		if items[i].CategoryID == "" {
			items[i].CategoryID = in.Purpose.CategoryID()
		}
		if items[i].CurrencyID == "" {
			items[i].CurrencyID = b.cfg.CurrencyID
		}
		if items[i].Quantity == 0 {
			items[i].Quantity = 1
		}
	}

	metadata := make(map[string]string, len(in.Metadata)+2)
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	metadata[models.MetaPurpose] = string(in.Purpose)
	metadata[models.MetaUserID] = in.UserID.String()
	delete(metadata, models.MetaPeriodDays)
	if in.Purpose == models.PurposeSubscriptionPayment && b.cfg.SubscriptionPeriodDays > 0 {
		metadata[models.MetaPeriodDays] = strconv.Itoa(b.cfg.SubscriptionPeriodDays)
	}

	return models.PreferenceRequest{
		Items:               items,
		Payer:               payer,
		ExternalReference:   ref,
		NotificationURL:     b.cfg.WebhookURL(in.Purpose),
		BackURLs:            b.cfg.BackURLs(),
		AutoReturn:          "approved",
		StatementDescriptor: b.cfg.StatementName,
		Metadata:            metadata,
	}, nil
}

func defaultDescription(purpose models.Purpose) string {
	switch purpose {
	case models.PurposeHiringPayment:
		return "Pagamento de contratação"
	case models.PurposeSubscriptionPayment:
		return "Assinatura PRO"
	}
	return "Depósito na carteira"
}
