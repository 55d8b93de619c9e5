package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/validation"
)

type EmailRecipientUseCase struct {
	Repo  EmailRecipientRepositoryInterface
	Rules *validation.Rules
}

func NewEmailRecipientUseCase(repo EmailRecipientRepositoryInterface, rules *validation.Rules) *EmailRecipientUseCase {
	return &EmailRecipientUseCase{Repo: repo, Rules: rules}
}

// List returns every recipient, optionally narrowed with the same case-insensitive
// email/name filter the admin screen applies.
func (uc *EmailRecipientUseCase) List(ctx context.Context, search string) ([]entity.EmailRecipient, error) {
	recipients, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, databaseError("list email recipients", err)
	}
	if recipients == nil {
		recipients = []entity.EmailRecipient{}
	}
	return entity.FilterRecipients(recipients, search), nil
}

func (uc *EmailRecipientUseCase) Get(ctx context.Context, id string) (*entity.EmailRecipient, error) {
	r, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, repositoryError("find email recipient", err)
	}
	return r, nil
}

func (uc *EmailRecipientUseCase) Create(ctx context.Context, input entity.CreateEmailRecipientInput) (*entity.EmailRecipient, error) {
	if errs := uc.Rules.CreateRecipient(input); len(errs) > 0 {
		return nil, validationError(errs)
	}

	r := entity.NewEmailRecipient(input.Email, input.Name, input.ActiveOrDefault())
	if err := uc.Repo.Create(ctx, r); err != nil {
		return nil, repositoryError("create email recipient", err)
	}
	return r, nil
}

func (uc *EmailRecipientUseCase) Update(ctx context.Context, id string, input entity.UpdateEmailRecipientInput) (*entity.EmailRecipient, error) {
	if errs := uc.Rules.UpdateRecipient(input); len(errs) > 0 {
		return nil, validationError(errs)
	}

	r, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, repositoryError("find email recipient", err)
	}

	if !input.Apply(r) {
		return r, nil
	}
	r.UpdatedAt = time.Now().UTC()

	if err := uc.Repo.Update(ctx, r); err != nil {
		return nil, repositoryError("update email recipient", err)
	}
	return r, nil
}

func (uc *EmailRecipientUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return repositoryError("delete email recipient", err)
	}
	return nil
}

func repositoryError(op string, err error) error {
	switch {
	case errors.Is(err, entity.ErrRecipientNotFound):
		return &DomainError{Code: CodeRecipientNotFound, Message: entity.ErrRecipientNotFound.Error()}
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		return &DomainError{Code: CodeEmailExists, Message: entity.ErrEmailAlreadyExists.Error()}
	}
	return databaseError(op, err)
}

func databaseError(op string, err error) error {
	return &TechnicalError{
		Code:    CodeDatabase,
		Message: fmt.Sprintf("%s: %v", op, err),
		Err:     err,
	}
}
