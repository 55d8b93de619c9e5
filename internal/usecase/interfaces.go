package usecase

import (
	"context"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/queue"
)

type QueueProducerInterface interface {
	PublishProspectSubmitted(ctx context.Context, payload queue.ProspectSubmittedPayload) error
}

type EmailService interface {
	SendProspectNotification(to, recipientName string, prospect queue.ProspectSubmittedPayload) error
}

// CRMService registers the prospect as a lead in the sales pipeline.
type CRMService interface {
	CreateLead(ctx context.Context, prospect queue.ProspectSubmittedPayload) (int, error)
}

// WhatsAppService acknowledges the submission to the prospect.
type WhatsAppService interface {
	SendProspectAcknowledgement(ctx context.Context, phone, name string) error
}

type ProspectRepositoryInterface = entity.ProspectRepositoryInterface

type EmailRecipientRepositoryInterface = entity.EmailRecipientRepositoryInterface
