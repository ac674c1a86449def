package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// VerificationStore persists verification records.
type VerificationStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error)
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error)
	Save(ctx context.Context, v *models.VerificationRecord) error
}

// VerificationSubmission is what a user sends to request verification.
type VerificationSubmission struct {
	DocumentFront string
	DocumentBack  string
	Selfie        string
	PixKey        string
	PixKeyType    models.PixKeyType
}

// VerificationService runs the identity verification state machine.
type VerificationService struct {
	transactor Transactor
	store      VerificationStore
	profiles   ProfileEnsurer
	emitter    emitter
	now        func() time.Time
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(transactor Transactor, store VerificationStore, profiles ProfileEnsurer, notifier NotificationSender) *VerificationService {
	return &VerificationService{
		transactor: transactor,
		store:      store,
		profiles:   profiles,
		emitter:    emitter{notifier: notifier},
		now:        time.Now,
	}
}

// Get returns the verification record of a user.
func (s *VerificationService) Get(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error) {
	return s.store.Get(ctx, userID)
}

// Submit records documents and a PIX key and moves the user to pending review.
func (s *VerificationService) Submit(ctx context.Context, userID uuid.UUID, in VerificationSubmission) (*models.VerificationRecord, error) {
	if strings.TrimSpace(in.DocumentFront) == "" || strings.TrimSpace(in.Selfie) == "" {
		return nil, models.ErrMissingDocuments
	}
	pixKey, err := models.NormalizePixKey(in.PixKeyType, in.PixKey)
	if err != nil {
		return nil, err
	}

	var record *models.VerificationRecord
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.profiles.EnsureProfile(ctx, userID, ""); err != nil {
			return err
		}
		current, err := s.store.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		next, err := models.NextVerificationStatus(current.Status, models.ActionSubmit)
		if err != nil {
			return err
		}
		current.Status = next
		current.DocumentFront = in.DocumentFront
		current.DocumentBack = in.DocumentBack
		current.Selfie = in.Selfie
		current.PixKey = pixKey
		current.PixKeyType = in.PixKeyType
		current.RejectionReason = ""
		record = current
		return s.store.Save(ctx, current)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("verification submitted", "user_id", userID)
	return record, nil
}

// Review applies an admin action (approve, reject, revoke or reopen).
func (s *VerificationService) Review(ctx context.Context, adminID, userID uuid.UUID, action models.VerificationAction, reason string) (*models.VerificationRecord, error) {
	if action == models.ActionSubmit {
		return nil, models.ErrInvalidVerificationTransition
	}

	var record *models.VerificationRecord
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.store.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		next, err := models.NextVerificationStatus(current.Status, action)
		if err != nil {
			return fmt.Errorf("%s from %s: %w", action, current.Status, err)
		}
		now := s.now()
		current.Status = next
		current.ReviewedBy = &adminID
		current.ReviewedAt = &now
		switch action {
		case models.ActionReject, models.ActionRevoke:
			current.RejectionReason = strings.TrimSpace(reason)
		default:
			current.RejectionReason = ""
		}
		record = current
		return s.store.Save(ctx, current)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("verification reviewed",
		"user_id", userID, "admin_id", adminID, "action", action, "status", record.Status)
	if n, ok := verificationNotification(record); ok {
		s.emitter.notify(ctx, n)
	}
	return record, nil
}

// UpdatePixKey replaces the PIX key of a user without changing the verification status.
func (s *VerificationService) UpdatePixKey(ctx context.Context, userID uuid.UUID, keyType models.PixKeyType, key string) (*models.VerificationRecord, error) {
	pixKey, err := models.NormalizePixKey(keyType, key)
	if err != nil {
		return nil, err
	}

	var record *models.VerificationRecord
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.profiles.EnsureProfile(ctx, userID, ""); err != nil {
			return err
		}
		current, err := s.store.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		current.PixKey = pixKey
		current.PixKeyType = keyType
		record = current
		return s.store.Save(ctx, current)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("pix key updated", "user_id", userID, "pix_key_type", keyType)
	return record, nil
}

func verificationNotification(v *models.VerificationRecord) (models.Notification, bool) {
	n := models.Notification{
		UserID:   v.UserID,
		Type:     "verification_" + string(v.Status),
		Data:     map[string]string{"status": string(v.Status)},
		Channels: []string{models.ChannelInApp, models.ChannelEmail},
	}
	switch v.Status {
	case models.VerificationVerified:
		n.Title, n.Message = "Identidade verificada", "Sua conta foi verificada. Saques via PIX estão liberados."
	case models.VerificationRejected:
		n.Title, n.Message = "Verificação recusada", "Seus documentos não foram aprovados. Envie novamente."
	case models.VerificationRevoked:
		n.Title, n.Message = "Verificação revogada", "Sua verificação foi revogada pela equipe."
	case models.VerificationPending:
		n.Title, n.Message = "Verificação reaberta", "Sua verificação voltou para análise."
	default:
		return models.Notification{}, false
	}
	if v.RejectionReason != "" {
		n.Data["reason"] = v.RejectionReason
	}
	return n, true
}
