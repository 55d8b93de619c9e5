package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRecipientNotFound  = errors.New("email recipient not found")
	ErrEmailAlreadyExists = errors.New("email address already registered")
	ErrProspectNotFound   = errors.New("prospect not found")
)

// EmailRecipient is an address registered to receive prospect notifications.
type EmailRecipient struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name,omitempty" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func NewEmailRecipient(email, name string, active bool) *EmailRecipient {
	now := time.Now().UTC()
	return &EmailRecipient{
		ID:        uuid.New().String(),
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Matches reports whether term is a case-insensitive substring of the email or
// the name. An empty term matches everything.
func (r EmailRecipient) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Email), term) ||
		strings.Contains(strings.ToLower(r.Name), term)
}

// FilterRecipients keeps the order of in and returns only the matching records.
func FilterRecipients(in []EmailRecipient, term string) []EmailRecipient {
	out := make([]EmailRecipient, 0, len(in))
	for _, r := range in {
		if r.Matches(term) {
			out = append(out, r)
		}
	}
	return out
}

// CreateEmailRecipientInput is the create draft. Active defaults to true when absent.
type CreateEmailRecipientInput struct {
	Email  string `json:"email" validate:"required,email,max=254"`
	Name   string `json:"name,omitempty" validate:"max=100"`
	Active *bool  `json:"active,omitempty"`
}

func (in CreateEmailRecipientInput) ActiveOrDefault() bool {
	if in.Active == nil {
		return true
	}
	return *in.Active
}

// UpdateEmailRecipientInput is a partial update; nil fields are left unchanged.
type UpdateEmailRecipientInput struct {
	Email  *string `json:"email,omitempty" validate:"omitnil,required,email,max=254"`
	Name   *string `json:"name,omitempty" validate:"omitnil,max=100"`
	Active *bool   `json:"active,omitempty"`
}

func (in UpdateEmailRecipientInput) Empty() bool {
	return in.Email == nil && in.Name == nil && in.Active == nil
}

// Apply copies the supplied fields onto r and reports whether anything changed.
func (in UpdateEmailRecipientInput) Apply(r *EmailRecipient) bool {
	changed := false
	if in.Email != nil && strings.TrimSpace(*in.Email) != r.Email {
		r.Email = strings.TrimSpace(*in.Email)
		changed = true
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != r.Name {
		r.Name = strings.TrimSpace(*in.Name)
		changed = true
	}
	if in.Active != nil && *in.Active != r.Active {
		r.Active = *in.Active
		changed = true
	}
	return changed
}

type EmailRecipientRepositoryInterface interface {
	List(ctx context.Context) ([]EmailRecipient, error)
	ListActive(ctx context.Context) ([]EmailRecipient, error)
	FindByID(ctx context.Context, id string) (*EmailRecipient, error)
	Create(ctx context.Context, r *EmailRecipient) error
	Update(ctx context.Context, r *EmailRecipient) error
	Delete(ctx context.Context, id string) error
}
