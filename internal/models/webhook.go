package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

// ErrMalformedWebhook is returned when a notification lacks the minimal shape.
var ErrMalformedWebhook = errors.New("malformed webhook payload")

// NotificationKind discriminates inbound payment notifications.
type NotificationKind string

const (
	// KindPaymentEvent carries only a provider payment id; the status must be
	// fetched from the gateway.
	KindPaymentEvent NotificationKind = "payment_event"
	// KindStatus carries a provider id together with its status.
	KindStatus NotificationKind = "status"
	// KindRedirect comes from the query string of the checkout return URL.
	KindRedirect NotificationKind = "redirect"
	// KindIgnored is a well-formed notification for a topic we do not process.
	KindIgnored NotificationKind = "ignored"
)

// StatusNotification is a validated inbound notification.
type StatusNotification struct {
	Kind              NotificationKind `json:"kind"`
	Topic             string           `json:"topic,omitempty"`
	ProviderID        string           `json:"provider_id"`
	ProviderStatus    string           `json:"provider_status,omitempty"`
	StatusDetail      string           `json:"status_detail,omitempty"`
	ExternalReference string           `json:"external_reference,omitempty"`
	PaymentMethodID   string           `json:"payment_method_id,omitempty"`
}

// flexString accepts JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type webhookBody struct {
	ID     flexString `json:"id"`
	Type   string     `json:"type"`
	Topic  string     `json:"topic"`
	Action string     `json:"action"`
	Data   *struct {
		ID flexString `json:"id"`
	} `json:"data"`
	Resource          string     `json:"resource"`
	TransactionID     flexString `json:"transaction_id"`
	PaymentID         flexString `json:"payment_id"`
	Status            string     `json:"status"`
	StatusDetail      string     `json:"status_detail"`
	ExternalReference string     `json:"external_reference"`
	PaymentMethodID   string     `json:"payment_method_id"`
}

// ParseWebhook validates a gateway push (JSON body) or IPN (query string).
func ParseWebhook(body []byte, query url.Values) (StatusNotification, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return parseIPN(query)
	}

	var b webhookBody
	if err := json.Unmarshal(body, &b); err != nil {
		return StatusNotification{}, ErrMalformedWebhook
	}

	topic := firstNonEmpty(b.Type, b.Topic)
	if topic == "" && strings.HasPrefix(b.Action, "payment.") {
		topic = "payment"
	}

	if topic != "" {
		if topic != "payment" {
			return StatusNotification{Kind: KindIgnored, Topic: topic}, nil
		}
		id := ""
		if b.Data != nil {
			id = clean(string(b.Data.ID))
		}
		if id == "" {
			id = lastPathSegment(b.Resource)
		}
		if id == "" {
			return StatusNotification{}, ErrMalformedWebhook
		}
		return StatusNotification{Kind: KindPaymentEvent, Topic: topic, ProviderID: id}, nil
	}

	id := firstNonEmpty(clean(string(b.TransactionID)), clean(string(b.PaymentID)), clean(string(b.ID)))
	if id == "" || strings.TrimSpace(b.Status) == "" {
		return StatusNotification{}, ErrMalformedWebhook
	}
	return StatusNotification{
		Kind:              KindStatus,
		ProviderID:        id,
		ProviderStatus:    b.Status,
		StatusDetail:      b.StatusDetail,
		ExternalReference: strings.TrimSpace(b.ExternalReference),
		PaymentMethodID:   b.PaymentMethodID,
	}, nil
}

func parseIPN(query url.Values) (StatusNotification, error) {
	topic := firstNonEmpty(query.Get("topic"), query.Get("type"))
	if topic == "" {
		return StatusNotification{}, ErrMalformedWebhook
	}
	if topic != "payment" {
		return StatusNotification{Kind: KindIgnored, Topic: topic}, nil
	}
	id := firstNonEmpty(clean(query.Get("id")), clean(query.Get("data.id")))
	if id == "" {
		return StatusNotification{}, ErrMalformedWebhook
	}
	return StatusNotification{Kind: KindPaymentEvent, Topic: topic, ProviderID: id}, nil
}

// ParseRedirect validates the query parameters echoed on checkout return.
func ParseRedirect(query url.Values) (StatusNotification, error) {
	n := StatusNotification{
		Kind:              KindRedirect,
		ProviderID:        firstNonEmpty(clean(query.Get("payment_id")), clean(query.Get("collection_id"))),
		ProviderStatus:    firstNonEmpty(clean(query.Get("payment_status")), clean(query.Get("status")), clean(query.Get("collection_status"))),
		StatusDetail:      clean(query.Get("status_detail")),
		ExternalReference: clean(query.Get("external_reference")),
		PaymentMethodID:   clean(query.Get("payment_type")),
	}
	if n.ProviderID == "" && n.ExternalReference == "" {
		return StatusNotification{}, ErrMalformedWebhook
	}
	if n.ProviderStatus == "" {
		if n.ProviderID == "" {
			return StatusNotification{}, ErrMalformedWebhook
		}
		n.Kind = KindPaymentEvent
	}
	return n, nil
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "null" || s == "undefined" {
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func lastPathSegment(resource string) string {
	resource = strings.TrimRight(strings.TrimSpace(resource), "/")
	if i := strings.LastIndex(resource, "/"); i >= 0 {
		resource = resource[i+1:]
	}
	return clean(resource)
}
