package models

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the identity verification state of a user.
type VerificationStatus string

const (
	VerificationNotVerified VerificationStatus = "not_verified"
	VerificationPending     VerificationStatus = "pending_verification"
	VerificationVerified    VerificationStatus = "verified"
	VerificationRejected    VerificationStatus = "rejected_verification"
	VerificationRevoked     VerificationStatus = "admin_revoked"
)

// PixKeyType is the kind of PIX key used as a withdrawal destination.
type PixKeyType string

const (
	PixKeyCPF    PixKeyType = "cpf"
	PixKeyCNPJ   PixKeyType = "cnpj"
	PixKeyEmail  PixKeyType = "email"
	PixKeyPhone  PixKeyType = "phone"
	PixKeyRandom PixKeyType = "random"
)

var (
	ErrInvalidPixKey                 = errors.New("invalid pix key")
	ErrInvalidVerificationTransition = errors.New("invalid verification transition")
	ErrMissingDocuments              = errors.New("missing verification documents")
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	phoneRegex = regexp.MustCompile(`^\+55\d{10,11}$`)
)

// VerificationRecord represents a row in identity_verifications.
type VerificationRecord struct {
	UserID          uuid.UUID          `json:"user_id" db:"user_id"`
	Status          VerificationStatus `json:"status" db:"status"`
	DocumentFront   string             `json:"document_front" db:"document_front"`
	DocumentBack    string             `json:"document_back" db:"document_back"`
	Selfie          string             `json:"selfie" db:"selfie"`
	PixKey          string             `json:"pix_key" db:"pix_key"`
	PixKeyType      PixKeyType         `json:"pix_key_type" db:"pix_key_type"`
	RejectionReason string             `json:"rejection_reason" db:"rejection_reason"`
	ReviewedBy      *uuid.UUID         `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time         `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" db:"updated_at"`
}

// CanWithdraw reports whether the record satisfies the withdrawal gate.
func (v *VerificationRecord) CanWithdraw() bool {
	return v != nil && v.Status == VerificationVerified && strings.TrimSpace(v.PixKey) != ""
}

// VerificationAction names a transition of the verification state machine.
type VerificationAction string

const (
	ActionSubmit  VerificationAction = "submit"
	ActionApprove VerificationAction = "approve"
	ActionReject  VerificationAction = "reject"
	ActionRevoke  VerificationAction = "revoke"
	ActionReopen  VerificationAction = "reopen"
)

// NextVerificationStatus returns the status reached by applying action.
func NextVerificationStatus(from VerificationStatus, action VerificationAction) (VerificationStatus, error) {
	switch action {
	case ActionSubmit:
		if from == VerificationNotVerified || from == VerificationRejected || from == "" {
			return VerificationPending, nil
		}
	case ActionApprove:
		if from == VerificationPending {
			return VerificationVerified, nil
		}
	case ActionReject:
		if from == VerificationPending {
			return VerificationRejected, nil
		}
	case ActionRevoke:
		if from == VerificationVerified {
			return VerificationRevoked, nil
		}
	case ActionReopen:
		if from == VerificationRevoked {
			return VerificationPending, nil
		}
	}
	return from, ErrInvalidVerificationTransition
}

// NormalizePixKey validates key against its type and returns the canonical form.
func NormalizePixKey(keyType PixKeyType, key string) (string, error) {
	key = strings.TrimSpace(key)
	switch keyType {
	case PixKeyCPF:
		digits := nonDigits.ReplaceAllString(key, "")
		if len(digits) == 11 {
			return digits, nil
		}
	case PixKeyCNPJ:
		digits := nonDigits.ReplaceAllString(key, "")
		if len(digits) == 14 {
			return digits, nil
		}
	case PixKeyEmail:
		if addr, err := mail.ParseAddress(key); err == nil && addr.Address == key {
			return strings.ToLower(key), nil
		}
	case PixKeyPhone:
		phone := "+" + nonDigits.ReplaceAllString(key, "")
		if phoneRegex.MatchString(phone) {
			return phone, nil
		}
	case PixKeyRandom:
		if id, err := uuid.Parse(key); err == nil {
			return id.String(), nil
		}
	}
	return "", ErrInvalidPixKey
}
