package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/infra/mail"
	"github.com/xavierca1/fortis-crm/internal/infra/queue"
	"go.uber.org/zap"
)

// NotifySaleUseCase e-mails the responsible seller about a sale and records
// the delivery in the lead history.
type NotifySaleUseCase struct {
	Users    entity.UserRepositoryInterface
	History  entity.HistoryRepositoryInterface
	Settings entity.SettingsRepositoryInterface
	Email    EmailService
	Logger   *zap.Logger
	Now      Clock
}

func NewNotifySaleUseCase(
	users entity.UserRepositoryInterface,
	history entity.HistoryRepositoryInterface,
	settings entity.SettingsRepositoryInterface,
	email EmailService,
	logger *zap.Logger,
	now Clock,
) *NotifySaleUseCase {
	return &NotifySaleUseCase{Users: users, History: history, Settings: settings, Email: email, Logger: logger, Now: now}
}

// NotifySale returns nil when there is nobody to notify so the message is
// acked; errors are returned only for failures worth dead-lettering.
func (uc *NotifySaleUseCase) NotifySale(ctx context.Context, event queue.LeadEvent) error {
	log := uc.Logger.With(zap.String("lead_id", event.LeadID), zap.String("event_id", event.ID))

	if event.ResponsibleID == "" {
		log.Info("lead sem responsável, notificação ignorada")
		return nil
	}
	seller, err := uc.Users.FindByID(ctx, event.ResponsibleID)
	if err != nil {
		if IsDomainError(userError("buscar responsável", err)) {
			log.Warn("⚠️ responsável não encontrado", zap.String("responsible_id", event.ResponsibleID))
			return nil
		}
		return fmt.Errorf("buscar responsável: %w", err)
	}
	if seller.Email == "" {
		log.Info("responsável sem e-mail, notificação ignorada")
		return nil
	}

	n := mail.SaleNotification{
		SellerName: seller.Name,
		LeadName:   event.LeadName,
		Value:      FormatBRL(event.Value),
		Date:       FormatDateBR(event.OccurredAt.In(uc.Now().Location())),
		Note:       event.Note,
	}
	if company, err := uc.Settings.GetCompany(ctx); err == nil {
		n.CompanyName = company.CompanyName
	}

	if err := uc.Email.SendSaleNotification(ctx, seller.Email, n); err != nil {
		return &TechnicalError{Code: CodeNotification, Message: "falha ao enviar e-mail de venda", Err: err}
	}

	entry := entity.NewEmailEntry(event.LeadID, fmt.Sprintf("E-mail de venda enviado para %s.", seller.Email), uc.Now())
	if err := uc.History.Append(ctx, entry); err != nil {
		// e-mail já saiu; reprocessar duplicaria o envio
		log.Error("❌ falha ao registrar envio de e-mail no histórico", zap.Error(err))
	}

	log.Info("📧 notificação de venda enviada", zap.String("to", seller.Email))
	return nil
}
