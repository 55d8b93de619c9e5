package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BudgetRange is the closed set of budget tokens accepted on the wire.
type BudgetRange string

const (
	BudgetBelow5k  BudgetRange = "below5k"
	Budget5kTo10k  BudgetRange = "5k-10k"
	Budget10kTo25k BudgetRange = "10k-25k"
	Budget25kTo50k BudgetRange = "25k-50k"
	BudgetAbove50k BudgetRange = "above50k"
)

// BudgetRanges returns the ranges in form order.
func BudgetRanges() []BudgetRange {
	return []BudgetRange{BudgetBelow5k, Budget5kTo10k, Budget10kTo25k, Budget25kTo50k, BudgetAbove50k}
}

func (b BudgetRange) Valid() bool {
	for _, r := range BudgetRanges() {
		if r == b {
			return true
		}
	}
	return false
}

func (b BudgetRange) Label() string {
	switch b {
	case BudgetBelow5k:
		return "Below $5,000"
	case Budget5kTo10k:
		return "$5,000 - $10,000"
	case Budget10kTo25k:
		return "$10,000 - $25,000"
	case Budget25kTo50k:
		return "$25,000 - $50,000"
	case BudgetAbove50k:
		return "Above $50,000"
	}
	return string(b)
}

// Timeline is optional on the goals step.
type Timeline string

const (
	TimelineImmediately Timeline = "immediately"
	TimelineOneToThree  Timeline = "1-3months"
	TimelineThreeToSix  Timeline = "3-6months"
	TimelineSixPlus     Timeline = "6plus-months"
)

// ProspectSubmission is the full questionnaire payload. The validate tags are the
// rule table shared by the questionnaire and the API boundary.
type ProspectSubmission struct {
	// Contact
	Name    string `json:"name" validate:"notblank,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"required,phone"`
	Company string `json:"company,omitempty" validate:"omitempty,max=200"`

	// Goals
	Goals    string   `json:"goals" validate:"notblank,max=2000"`
	Timeline Timeline `json:"timeline,omitempty" validate:"omitempty,oneof=immediately 1-3months 3-6months 6plus-months"`

	// Services
	Services []string `json:"services" validate:"required,min=1,unique,dive,service"`

	// Budget
	BudgetRange BudgetRange `json:"budgetRange" validate:"required,budgetrange"`
}

// Prospect is a stored submission.
type Prospect struct {
	ID string `json:"id"`
	ProspectSubmission
	CreatedAt time.Time `json:"createdAt"`
}

func NewProspect(s ProspectSubmission) *Prospect {
	services := make([]string, len(s.Services))
	copy(services, s.Services)
	s.Services = services

	return &Prospect{
		ID:                 uuid.New().String(),
		ProspectSubmission: s,
		CreatedAt:          time.Now().UTC(),
	}
}

type ProspectRepositoryInterface interface {
	Create(ctx context.Context, p *Prospect) error
	FindByID(ctx context.Context, id string) (*Prospect, error)
	Delete(ctx context.Context, id string) error
}
