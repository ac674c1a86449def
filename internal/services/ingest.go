package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/facades"
	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/metrics"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

var (
	// ErrPaymentMismatch is returned when a gateway payment does not match
	// the transaction it points at by type or amount.
	ErrPaymentMismatch = errors.New("gateway payment does not match transaction")
	// ErrOrphanedPayment is returned when an approved payment arrives for a
	// transaction that is already closed and needs manual action.
	ErrOrphanedPayment = errors.New("approved payment for a closed transaction")
)

// IngestTransactionStore locates and reconstructs transactions for incoming notifications.
type IngestTransactionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.WalletTransaction, error)
	GetByProviderID(ctx context.Context, providerID string) (*models.WalletTransaction, error)
	GetByExternalReference(ctx context.Context, ref string) (*models.WalletTransaction, error)
	BindProviderID(ctx context.Context, id uuid.UUID, providerID string) error
	UpsertByExternalReference(ctx context.Context, t *models.WalletTransaction) (*models.WalletTransaction, error)
}

// TransitionApplier applies reconcile requests.
type TransitionApplier interface {
	Apply(ctx context.Context, req ReconcileRequest) (*Outcome, error)
}

// IngestResult reports how a notification was handled.
type IngestResult struct {
	Kind    models.NotificationKind
	Status  models.TransactionStatus
	Outcome *Outcome
}

// IngestService turns gateway notifications into reconcile requests.
type IngestService struct {
	gateway    PaymentGateway
	txs        IngestTransactionStore
	profiles   ProfileEnsurer
	reconciler TransitionApplier
	// confirmStatus makes direct status payloads re-read their status from
	// the gateway instead of trusting the payload.
	confirmStatus bool
}

// NewIngestService creates a new IngestService.
func NewIngestService(
	gateway PaymentGateway,
	txs IngestTransactionStore,
	profiles ProfileEnsurer,
	reconciler TransitionApplier,
	confirmStatus bool,
) *IngestService {
	return &IngestService{
		gateway:       gateway,
		txs:           txs,
		profiles:      profiles,
		reconciler:    reconciler,
		confirmStatus: confirmStatus,
	}
}

// Ingest handles one parsed notification. purpose is the purpose of the
// webhook route it arrived on and is used only to reconstruct unknown
// transactions.
func (s *IngestService) Ingest(ctx context.Context, purpose models.Purpose, n models.StatusNotification) (*IngestResult, error) {
	log := logger.FromContext(ctx)
	result := &IngestResult{Kind: n.Kind}

	if n.Kind == models.KindIgnored {
		metrics.WebhooksReceived.WithLabelValues(string(n.Kind), "ignored").Inc()
		log.Infow("notification ignored", "topic", n.Topic, "provider_id", n.ProviderID)
		return result, nil
	}

	// Redirect parameters come from the browser and are never trusted.
	// Approvals are always re-read so the paid amount can be checked.
	var info *models.PaymentInfo
	if s.needsConfirmation(n) {
		var err error
		info, err = s.fetch(ctx, n)
		if err != nil {
			metrics.WebhooksReceived.WithLabelValues(string(n.Kind), "gateway_error").Inc()
			return result, err
		}
		if info.ID != "" {
			n.ProviderID = info.ID
		}
		n.ProviderStatus = info.Status
		n.StatusDetail = info.StatusDetail
		n.PaymentMethodID = info.PaymentMethodID
		if info.ExternalReference != "" {
			n.ExternalReference = info.ExternalReference
		}
	}

	status, known := models.NormalizeProviderStatus(n.ProviderStatus)
	if !known {
		metrics.UnknownProviderStatuses.WithLabelValues(n.ProviderStatus).Inc()
		log.Warnw("unknown provider status treated as pending",
			"provider_status", n.ProviderStatus, "provider_id", n.ProviderID)
	}
	result.Status = status

	tx, err := s.locate(ctx, purpose, n, info)
	if err != nil {
		metrics.WebhooksReceived.WithLabelValues(string(n.Kind), "not_found").Inc()
		return result, err
	}

	settle, err := s.admit(ctx, tx, n.ProviderID, n.ExternalReference, status, info)
	if err != nil {
		metrics.WebhooksReceived.WithLabelValues(string(n.Kind), "refused").Inc()
		return result, err
	}
	if !settle {
		metrics.WebhooksReceived.WithLabelValues(string(n.Kind), "superseded").Inc()
		return result, nil
	}

	out, err := s.reconciler.Apply(ctx, ReconcileRequest{
		TransactionID:   tx.ID,
		Status:          status,
		StatusDetail:    n.StatusDetail,
		PaymentMethodID: n.PaymentMethodID,
	})
	if err != nil {
		metrics.WebhooksReceived.WithLabelValues(string(n.Kind), "reconcile_error").Inc()
		return result, err
	}

	metrics.WebhooksReceived.WithLabelValues(string(n.Kind), "processed").Inc()
	result.Outcome = out
	return result, nil
}

func (s *IngestService) needsConfirmation(n models.StatusNotification) bool {
	switch n.Kind {
	case models.KindPaymentEvent, models.KindRedirect:
		return true
	case models.KindStatus:
		if s.confirmStatus {
			return true
		}
		status, _ := models.NormalizeProviderStatus(n.ProviderStatus)
		return status == models.StatusApproved
	}
	return false
}

func (s *IngestService) fetch(ctx context.Context, n models.StatusNotification) (*models.PaymentInfo, error) {
	if n.ProviderID != "" {
		info, err := s.gateway.GetPayment(ctx, n.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("fetch payment %s: %w", n.ProviderID, err)
		}
		return info, nil
	}
	info, err := s.gateway.SearchPaymentByExternalReference(ctx, n.ExternalReference)
	if err != nil {
		return nil, fmt.Errorf("search payment %s: %w", n.ExternalReference, err)
	}
	return info, nil
}

// Verify polls the gateway for the payment behind a user's transaction and
// reconciles it. Transactions without a gateway payment are returned as is.
func (s *IngestService) Verify(ctx context.Context, userID, transactionID uuid.UUID) (*models.WalletTransaction, error) {
	tx, err := s.txs.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, models.ErrTransactionNotFound
	}
	if !gatewayBacked(tx) || (tx.Status != models.StatusPending && tx.Status != models.StatusApproved) {
		return tx, nil
	}

	info, err := s.gateway.SearchPaymentByExternalReference(ctx, tx.ExternalReference)
	if errors.Is(err, facades.ErrPaymentNotFound) {
		return tx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search payment: %w", err)
	}

	status, known := models.NormalizeProviderStatus(info.Status)
	if !known {
		metrics.UnknownProviderStatuses.WithLabelValues(info.Status).Inc()
		logger.FromContext(ctx).Warnw("unknown provider status treated as pending", "provider_status", info.Status, "provider_id", info.ID)
	}

	settle, err := s.admit(ctx, tx, info.ID, tx.ExternalReference, status, info)
	if err != nil {
		return nil, err
	}
	if !settle {
		return tx, nil
	}

	out, err := s.reconciler.Apply(ctx, ReconcileRequest{
		TransactionID:   tx.ID,
		Status:          status,
		StatusDetail:    info.StatusDetail,
		PaymentMethodID: info.PaymentMethodID,
	})
	if err != nil {
		return nil, err
	}
	return out.Transaction, nil
}

// locate finds the transaction a notification refers to: by provider id,
// then by external reference, then by reconstructing it from the gateway
// payment.
func (s *IngestService) locate(ctx context.Context, purpose models.Purpose, n models.StatusNotification, info *models.PaymentInfo) (*models.WalletTransaction, error) {
	if n.ProviderID != "" {
		tx, err := s.txs.GetByProviderID(ctx, n.ProviderID)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, models.ErrTransactionNotFound) {
			return nil, err
		}
	}

	if n.ExternalReference != "" {
		tx, err := s.txs.GetByExternalReference(ctx, n.ExternalReference)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, models.ErrTransactionNotFound) {
			return nil, err
		}
	}

	if info == nil && n.ProviderID != "" {
		var err error
		info, err = s.gateway.GetPayment(ctx, n.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("fetch payment %s: %w", n.ProviderID, models.ErrTransactionNotFound)
		}
	}
	if info == nil {
		return nil, models.ErrTransactionNotFound
	}
	return s.reconstruct(ctx, purpose, info)
}

// admit checks that a gateway payment may settle tx and binds the payment
// id onto a transaction that is still open. It reports false when the
// payment is not the one the transaction is settled by and must be skipped.
func (s *IngestService) admit(
	ctx context.Context,
	tx *models.WalletTransaction,
	providerID, ref string,
	status models.TransactionStatus,
	info *models.PaymentInfo,
) (bool, error) {
	log := logger.FromContext(ctx).With(
		"transaction_id", tx.ID, "user_id", tx.UserID, "provider_id", providerID,
		"external_reference", tx.ExternalReference)

	if !gatewayBacked(tx) || !samePurpose(tx, ref, info) {
		metrics.PaymentAnomalies.WithLabelValues("type_mismatch").Inc()
		log.Errorw("gateway payment refused: transaction type mismatch", "type", tx.Type, "status", tx.Status)
		return false, fmt.Errorf("%s transaction %s: %w", tx.Type, tx.ID, ErrPaymentMismatch)
	}

	if status == models.StatusApproved && info != nil {
		paid, err := models.ToCents(info.TransactionAmount)
		if err != nil || paid != tx.Amount {
			metrics.PaymentAnomalies.WithLabelValues("amount_mismatch").Inc()
			log.Errorw("gateway payment refused: amount mismatch",
				"expected", tx.Amount, "paid", info.TransactionAmount.String())
			return false, fmt.Errorf("transaction %s expects %d cents, paid %s: %w",
				tx.ID, tx.Amount, info.TransactionAmount, ErrPaymentMismatch)
		}
	}

	if providerID == "" || providerID == tx.ProviderID() {
		return true, nil
	}

	if tx.Status != models.StatusPending {
		if status == models.StatusApproved {
			metrics.PaymentAnomalies.WithLabelValues("orphaned").Inc()
			log.Errorw("approved payment arrived for a closed transaction",
				"status", tx.Status, "bound_provider_id", tx.ProviderID())
			return false, fmt.Errorf("transaction %s is %s: %w", tx.ID, tx.Status, ErrOrphanedPayment)
		}
		log.Infow("payment for a closed transaction skipped",
			"status", tx.Status, "payment_status", status, "bound_provider_id", tx.ProviderID())
		return false, nil
	}

	if err := s.txs.BindProviderID(ctx, tx.ID, providerID); err != nil {
		return false, fmt.Errorf("bind provider id: %w", err)
	}
	tx.ProviderTransactionID = &providerID
	return true, nil
}

func gatewayBacked(tx *models.WalletTransaction) bool {
	switch tx.Type {
	case models.TypeWithdrawal, models.TypePayout:
		return false
	}
	return tx.Status != models.StatusPendingWithdrawal
}

// samePurpose reports whether the purpose the payment was created for
// matches the transaction type. Payments that carry no purpose pass.
func samePurpose(tx *models.WalletTransaction, ref string, info *models.PaymentInfo) bool {
	if info != nil {
		if p, err := models.ParsePurpose(info.Metadata[models.MetaPurpose]); err == nil {
			return p.TransactionType() == tx.Type
		}
		if info.ExternalReference != "" {
			ref = info.ExternalReference
		}
	}
	if p, _, ok := ParseExternalReference(ref); ok {
		return p.TransactionType() == tx.Type
	}
	return true
}

// reconstruct recreates a transaction that was never recorded at checkout.
func (s *IngestService) reconstruct(ctx context.Context, purpose models.Purpose, info *models.PaymentInfo) (*models.WalletTransaction, error) {
	if info.ExternalReference == "" {
		return nil, models.ErrTransactionNotFound
	}

	refPurpose, refUser, parsed := ParseExternalReference(info.ExternalReference)
	if p, err := models.ParsePurpose(info.Metadata[models.MetaPurpose]); err == nil {
		purpose = p
	} else if parsed {
		purpose = refPurpose
	}

	userID, err := uuid.Parse(info.Metadata[models.MetaUserID])
	if err != nil {
		if !parsed {
			return nil, fmt.Errorf("reconstruct %s: unknown user: %w", info.ExternalReference, models.ErrTransactionNotFound)
		}
		userID = refUser
	}

	amount, err := models.ToCents(info.TransactionAmount)
	if err != nil {
		return nil, fmt.Errorf("reconstruct %s: %w", info.ExternalReference, err)
	}

	metadata := models.Metadata{}
	for k, v := range info.Metadata {
		metadata[k] = v
	}
	metadata[models.MetaPurpose] = string(purpose)
	metadata[models.MetaUserID] = userID.String()

	if err := s.profiles.EnsureProfile(ctx, userID, ""); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	providerID := info.ID
	tx, err := s.txs.UpsertByExternalReference(ctx, &models.WalletTransaction{
		ID:                    uuid.New(),
		UserID:                userID,
		Type:                  purpose.TransactionType(),
		Amount:                amount,
		Status:                models.StatusPending,
		ProviderTransactionID: &providerID,
		ExternalReference:     info.ExternalReference,
		PaymentMethodID:       info.PaymentMethodID,
		Description:           info.Description,
		Metadata:              metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("reconstruct %s: %w", info.ExternalReference, err)
	}

	logger.FromContext(ctx).Infow("transaction reconstructed from gateway payment",
		"transaction_id", tx.ID, "external_reference", tx.ExternalReference, "user_id", userID)
	return tx, nil
}
