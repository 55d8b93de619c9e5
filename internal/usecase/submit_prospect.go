package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/queue"
	"github.com/xavierca1/prospect-intake/internal/validation"
)

const (
	OriginQuestionnaire = "QUESTIONNAIRE"
	SubmittedMessage    = "Thank you! We received your questionnaire and will contact you shortly."
)

type SubmitProspectUseCase struct {
	Repo  ProspectRepositoryInterface
	Queue QueueProducerInterface
	Rules *validation.Rules
}

func NewSubmitProspectUseCase(
	repo ProspectRepositoryInterface,
	queue QueueProducerInterface,
	rules *validation.Rules,
) *SubmitProspectUseCase {
	return &SubmitProspectUseCase{
		Repo:  repo,
		Queue: queue,
		Rules: rules,
	}
}

func (uc *SubmitProspectUseCase) Execute(ctx context.Context, input entity.ProspectSubmission) (*SubmitProspectOutput, error) {
	if errs := uc.Rules.Prospect(input); len(errs) > 0 {
		return nil, validationError(errs)
	}

	prospect := entity.NewProspect(normalizeSubmission(input))

	txn := NewTransaction()
	txn.AddOperation("create_prospect",
		func(ctx context.Context) error { return uc.Repo.Create(ctx, prospect) },
		func(ctx context.Context) error { return uc.Repo.Delete(ctx, prospect.ID) },
	)
	txn.AddOperation("publish_prospect_submitted",
		func(ctx context.Context) error {
			return uc.Queue.PublishProspectSubmitted(ctx, queue.NewProspectSubmittedPayload(prospect, OriginQuestionnaire))
		},
		nil,
	)

	if err := txn.Execute(ctx); err != nil {
		code := CodeDatabase
		var txErr *TransactionError
		if errors.As(err, &txErr) && txErr.Operation == "publish_prospect_submitted" {
			code = CodeQueue
		}
		return nil, &TechnicalError{
			Code:    code,
			Message: "failed to submit questionnaire: " + err.Error(),
			Err:     err,
		}
	}

	log.Printf("📝 Prospect %s submitted (%s, budget %s)", prospect.ID, prospect.Email, prospect.BudgetRange)

	return &SubmitProspectOutput{
		ID:      prospect.ID,
		Message: SubmittedMessage,
	}, nil
}

func normalizeSubmission(in entity.ProspectSubmission) entity.ProspectSubmission {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Goals = strings.TrimSpace(in.Goals)
	return in
}
