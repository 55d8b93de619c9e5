package usecase

import (
	"errors"

	"github.com/xavierca1/prospect-intake/internal/validation"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeRecipientNotFound = "RECIPIENT_NOT_FOUND"
	CodeEmailExists       = "EMAIL_ALREADY_EXISTS"
	CodeDatabase          = "DATABASE_ERROR"
	CodeQueue             = "QUEUE_ERROR"
)

// DomainError is a rejection the caller can fix by changing the request.
type DomainError struct {
	Code    string
	Message string
	Fields  []validation.FieldError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure; the request itself was fine.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func validationError(fields []validation.FieldError) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + validation.Join(fields),
		Fields:  fields,
	}
}
