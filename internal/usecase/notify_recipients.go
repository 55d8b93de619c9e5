package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/xavierca1/prospect-intake/internal/infra/http/middleware"
	"github.com/xavierca1/prospect-intake/internal/infra/queue"
)

// NotifyRecipientsUseCase fans a submitted prospect out to every active email
// recipient, the CRM and the prospect's own WhatsApp.
type NotifyRecipientsUseCase struct {
	RecipientRepo   EmailRecipientRepositoryInterface
	EmailService    EmailService
	CRMService      CRMService
	WhatsAppService WhatsAppService
}

func NewNotifyRecipientsUseCase(
	recipientRepo EmailRecipientRepositoryInterface,
	emailService EmailService,
	crmService CRMService,
	whatsappService WhatsAppService,
) *NotifyRecipientsUseCase {
	return &NotifyRecipientsUseCase{
		RecipientRepo:   recipientRepo,
		EmailService:    emailService,
		CRMService:      crmService,
		WhatsAppService: whatsappService,
	}
}

// Execute satisfies queue.ProspectHandler. It only fails when the recipients cannot
// be loaded or when every email failed, so the message is dead-lettered.
func (uc *NotifyRecipientsUseCase) Execute(ctx context.Context, payload queue.ProspectSubmittedPayload) error {
	res, err := uc.Notify(ctx, payload)
	if err != nil {
		return err
	}
	if res.EmailsSent == 0 && res.EmailsFailed > 0 {
		return fmt.Errorf("all %d recipient emails failed for prospect %s", res.EmailsFailed, payload.ProspectID)
	}
	return nil
}

func (uc *NotifyRecipientsUseCase) Notify(ctx context.Context, payload queue.ProspectSubmittedPayload) (NotifyResult, error) {
	var res NotifyResult

	recipients, err := uc.RecipientRepo.ListActive(ctx)
	if err != nil {
		return res, fmt.Errorf("load active recipients: %w", err)
	}

	if len(recipients) == 0 {
		log.Printf("⚠️ No active email recipients; prospect %s not emailed", payload.ProspectID)
	}

	if uc.EmailService != nil {
		for _, r := range recipients {
			if err := uc.EmailService.SendProspectNotification(r.Email, r.Name, payload); err != nil {
				log.Printf("❌ Email to %s failed: %v", r.Email, err)
				middleware.RecordNotification("email", "failed")
				res.EmailsFailed++
				continue
			}
			middleware.RecordNotification("email", "sent")
			res.EmailsSent++
		}
	}

	if uc.CRMService != nil {
		leadID, err := uc.CRMService.CreateLead(ctx, payload)
		if err != nil {
			log.Printf("⚠️ CRM lead for prospect %s failed: %v", payload.ProspectID, err)
			middleware.RecordNotification("crm", "failed")
			middleware.RecordIntegrationError("kommo")
		} else {
			middleware.RecordNotification("crm", "sent")
			res.CRMLeadID = leadID
		}
	}

	if uc.WhatsAppService != nil && payload.Phone != "" {
		if err := uc.WhatsAppService.SendProspectAcknowledgement(ctx, payload.Phone, payload.Name); err != nil {
			log.Printf("⚠️ WhatsApp acknowledgement for prospect %s failed: %v", payload.ProspectID, err)
			middleware.RecordNotification("whatsapp", "failed")
			middleware.RecordIntegrationError("whatsapp")
		} else {
			middleware.RecordNotification("whatsapp", "sent")
		}
	}

	log.Printf("🚀 Prospect %s: %d email(s) sent, %d failed", payload.ProspectID, res.EmailsSent, res.EmailsFailed)
	return res, nil
}
