package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
	"github.com/sbilibin2017/gw-payment-ledger/internal/repositories"
)

// EventPublisher fans wallet events out to connected clients.
type EventPublisher interface {
	Publish(ctx context.Context, event models.WalletEvent) error
}

// NotificationSender delivers notifications and ledger events.
type NotificationSender interface {
	Send(ctx context.Context, notification models.Notification)
	PublishTransaction(ctx context.Context, txn models.Transaction)
}

// emitter runs the post-commit side effects of a transaction change.
// Both collaborators are optional.
type emitter struct {
	events   EventPublisher
	notifier NotificationSender
}

// transactionChanged publishes the change once the surrounding database
// transaction, if any, commits.
func (e emitter) transactionChanged(ctx context.Context, tx *models.WalletTransaction, from models.TransactionStatus, balance *int64) {
	snapshot := *tx
	repositories.AfterCommit(ctx, func() {
		e.publish(context.WithoutCancel(ctx), &snapshot, from, balance)
	})
}

func (e emitter) publish(ctx context.Context, tx *models.WalletTransaction, from models.TransactionStatus, balance *int64) {
	if e.events != nil {
		event := models.WalletEvent{
			UserID:        tx.UserID,
			TransactionID: tx.ID,
			Type:          tx.Type,
			Status:        tx.Status,
			Amount:        tx.Amount,
			Balance:       balance,
		}
		if err := e.events.Publish(ctx, event); err != nil {
			logger.Log.Errorw("failed to publish wallet event", "transaction_id", tx.ID, "error", err)
		}
	}

	if e.notifier == nil {
		return
	}

	e.notifier.PublishTransaction(ctx, models.Transaction{
		TransactionID:     tx.ID.String(),
		ExternalReference: tx.ExternalReference,
		Timestamp:         time.Now().Unix(),
		Amount:            tx.Amount,
		UserID:            tx.UserID.String(),
		Operation:         string(tx.Type),
		Status:            string(tx.Status),
		PreviousStatus:    string(from),
		BalanceAfter:      balance,
	})

	if n, ok := notificationFor(tx); ok {
		e.notifier.Send(ctx, n)
	}
}

func (e emitter) notify(ctx context.Context, n models.Notification) {
	if e.notifier == nil {
		return
	}
	repositories.AfterCommit(ctx, func() {
		e.notifier.Send(context.WithoutCancel(ctx), n)
	})
}

// notificationFor returns the user-facing notification for a transaction
// that reached its current status.
func notificationFor(tx *models.WalletTransaction) (models.Notification, bool) {
	amount := "R$ " + models.FormatCents(tx.Amount)
	n := models.Notification{
		UserID: tx.UserID,
		Type:   fmt.Sprintf("%s_%s", tx.Type, tx.Status),
		Data: map[string]string{
			"transaction_id":     tx.ID.String(),
			"external_reference": tx.ExternalReference,
			"amount":             models.FormatCents(tx.Amount),
		},
		Channels: []string{models.ChannelInApp, models.ChannelPush},
	}

	switch {
	case tx.Type == models.TypeDeposit && tx.Status == models.StatusApproved:
		n.Title, n.Message = "Depósito aprovado", amount+" foram adicionados à sua carteira."
	case tx.Type == models.TypeDeposit && tx.Status == models.StatusRejected:
		n.Title, n.Message = "Depósito recusado", "O pagamento de "+amount+" não foi aprovado."
	case tx.Type == models.TypePayout && tx.Status == models.StatusApproved:
		n.Title, n.Message = "Pagamento recebido", amount+" foram creditados na sua carteira."
	case tx.Type == models.TypeWithdrawal && tx.Status == models.StatusPendingWithdrawal:
		n.Title, n.Message = "Saque solicitado", "Seu saque de "+amount+" está em análise."
	case tx.Type == models.TypeWithdrawal && tx.Status == models.StatusApproved:
		n.Title, n.Message = "Saque aprovado", "Seu saque de "+amount+" foi enviado para sua chave PIX."
		n.Channels = append(n.Channels, models.ChannelEmail)
	case tx.Type == models.TypeWithdrawal && (tx.Status == models.StatusRejected || tx.Status == models.StatusCancelled):
		n.Title, n.Message = "Saque não realizado", amount+" foram devolvidos à sua carteira."
		if reason := tx.Metadata[models.MetaReason]; reason != "" {
			n.Data["reason"] = reason
		}
	case tx.Type == models.TypeSubscription && tx.Status == models.StatusApproved:
		n.Title, n.Message = "Assinatura PRO ativada", "Seu pagamento foi aprovado e sua assinatura está ativa."
		n.Channels = append(n.Channels, models.ChannelEmail)
	case tx.Type == models.TypeHiring && tx.Status == models.StatusApproved:
		n.Title, n.Message = "Contratação paga", "O pagamento de "+amount+" da contratação foi confirmado."
		if id := tx.Metadata[models.MetaContractID]; id != "" {
			n.Data["contract_id"] = id
		}
	case tx.Status == models.StatusRefunded:
		n.Title, n.Message = "Pagamento estornado", "O pagamento de "+amount+" foi estornado."
	default:
		return models.Notification{}, false
	}
	return n, true
}
