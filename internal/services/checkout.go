package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// PaymentGateway is the payment provider API.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, req models.PreferenceRequest) (*models.PreferenceResult, error)
	GetPayment(ctx context.Context, paymentID string) (*models.PaymentInfo, error)
	SearchPaymentByExternalReference(ctx context.Context, ref string) (*models.PaymentInfo, error)
}

// TransactionCreator records new wallet transactions.
type TransactionCreator interface {
	Create(ctx context.Context, t *models.WalletTransaction) error
}

// CheckoutTransactionStore records checkouts and looks up caller supplied references.
type CheckoutTransactionStore interface {
	TransactionCreator
	GetByExternalReference(ctx context.Context, ref string) (*models.WalletTransaction, error)
}

// ErrDuplicateReference is returned when a checkout reuses an external reference.
var ErrDuplicateReference = errors.New("external reference already in use")

// ProfileEnsurer creates missing profiles.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, userID uuid.UUID, email string) error
}

// CheckoutResult is returned to the client starting a checkout.
type CheckoutResult struct {
	TransactionID     uuid.UUID
	PreferenceID      string
	RedirectURL       string
	ExternalReference string
	PublicKey         string
}

// CheckoutService creates gateway checkouts and records them as pending transactions.
type CheckoutService struct {
	builder   *PreferenceBuilder
	gateway   PaymentGateway
	txs       CheckoutTransactionStore
	profiles  ProfileEnsurer
	publicKey string
	sandbox   bool
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	builder *PreferenceBuilder,
	gateway PaymentGateway,
	txs CheckoutTransactionStore,
	profiles ProfileEnsurer,
	publicKey string,
	sandbox bool,
) *CheckoutService {
	return &CheckoutService{
		builder:   builder,
		gateway:   gateway,
		txs:       txs,
		profiles:  profiles,
		publicKey: publicKey,
		sandbox:   sandbox,
	}
}

// Checkout builds a preference, creates it at the gateway and records a
// pending transaction for it. A failed insert is logged and does not fail
// the checkout; reconciliation reconstructs the row from the first
// notification.
func (s *CheckoutService) Checkout(ctx context.Context, in PreferenceInput, email string) (*CheckoutResult, error) {
	log := logger.FromContext(ctx)

	req, err := s.builder.Build(in)
	if err != nil {
		return nil, err
	}

	if in.ExternalReference != "" {
		_, err := s.txs.GetByExternalReference(ctx, req.ExternalReference)
		switch {
		case err == nil:
			log.Warnw("checkout refused: external reference in use", "user_id", in.UserID, "external_reference", req.ExternalReference)
			return nil, fmt.Errorf("%s: %w", req.ExternalReference, ErrDuplicateReference)
		case !errors.Is(err, models.ErrTransactionNotFound):
			return nil, fmt.Errorf("check external reference: %w", err)
		}
	}

	pref, err := s.gateway.CreatePreference(ctx, req)
	if err != nil {
		log.Errorw("failed to create preference", "user_id", in.UserID, "purpose", in.Purpose, "error", err)
		return nil, fmt.Errorf("create preference: %w", err)
	}

	redirect := pref.InitPoint
	if s.sandbox && pref.SandboxInitPoint != "" {
		redirect = pref.SandboxInitPoint
	}

	metadata := models.Metadata{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata[models.MetaPreferenceID] = pref.ID

	providerID := pref.ID
	tx := &models.WalletTransaction{
		ID:                    uuid.New(),
		UserID:                in.UserID,
		Type:                  in.Purpose.TransactionType(),
		Amount:                in.Amount,
		Status:                models.StatusPending,
		ProviderTransactionID: &providerID,
		ExternalReference:     req.ExternalReference,
		Description:           req.Items[0].Title,
		Metadata:              metadata,
	}

	if err := s.profiles.EnsureProfile(ctx, in.UserID, email); err != nil {
		log.Errorw("failed to ensure profile", "user_id", in.UserID, "error", err)
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		log.Errorw("failed to record pending transaction",
			"user_id", in.UserID, "external_reference", req.ExternalReference, "preference_id", pref.ID, "error", err)
	} else {
		log.Infow("pending transaction recorded",
			"transaction_id", tx.ID, "user_id", in.UserID, "purpose", in.Purpose, "amount", in.Amount)
	}

	return &CheckoutResult{
		TransactionID:     tx.ID,
		PreferenceID:      pref.ID,
		RedirectURL:       redirect,
		ExternalReference: req.ExternalReference,
		PublicKey:         s.publicKey,
	}, nil
}
