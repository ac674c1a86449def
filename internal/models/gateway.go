package models

import (
	"github.com/shopspring/decimal"
)

// Payer identifies who pays a checkout preference.
type Payer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// PreferenceItem is one checkout line item.
type PreferenceItem struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	CategoryID  string  `json:"category_id,omitempty"`
	Quantity    int     `json:"quantity"`
	CurrencyID  string  `json:"currency_id"`
	UnitPrice   float64 `json:"unit_price"`
}

// BackURLs are the browser return URLs of a checkout.
type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferenceRequest is the gateway checkout request body.
type PreferenceRequest struct {
	Items               []PreferenceItem  `json:"items"`
	Payer               Payer             `json:"payer"`
	ExternalReference   string            `json:"external_reference"`
	NotificationURL     string            `json:"notification_url"`
	BackURLs            BackURLs          `json:"back_urls"`
	AutoReturn          string            `json:"auto_return,omitempty"`
	StatementDescriptor string            `json:"statement_descriptor,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

// PreferenceResult is what the gateway returns for a created preference.
type PreferenceResult struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// PaymentInfo is the gateway view of a payment.
type PaymentInfo struct {
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	StatusDetail      string            `json:"status_detail"`
	ExternalReference string            `json:"external_reference"`
	TransactionAmount decimal.Decimal   `json:"transaction_amount"`
	PaymentMethodID   string            `json:"payment_method_id"`
	Description       string            `json:"description"`
	Metadata          map[string]string `json:"metadata"`
}
