package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/queue"
)

// MockProspectRepository
type MockProspectRepository struct {
	mock.Mock
}

func (m *MockProspectRepository) Create(ctx context.Context, p *entity.Prospect) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prospect), args.Error(1)
}

func (m *MockProspectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRecipientRepository
type MockRecipientRepository struct {
	mock.Mock
}

func (m *MockRecipientRepository) List(ctx context.Context) ([]entity.EmailRecipient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EmailRecipient), args.Error(1)
}

func (m *MockRecipientRepository) ListActive(ctx context.Context) ([]entity.EmailRecipient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EmailRecipient), args.Error(1)
}

func (m *MockRecipientRepository) FindByID(ctx context.Context, id string) (*entity.EmailRecipient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailRecipient), args.Error(1)
}

func (m *MockRecipientRepository) Create(ctx context.Context, r *entity.EmailRecipient) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipientRepository) Update(ctx context.Context, r *entity.EmailRecipient) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishProspectSubmitted(ctx context.Context, payload queue.ProspectSubmittedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendProspectNotification(to, recipientName string, prospect queue.ProspectSubmittedPayload) error {
	args := m.Called(to, recipientName, prospect)
	return args.Error(0)
}

// MockCRMService
type MockCRMService struct {
	mock.Mock
}

func (m *MockCRMService) CreateLead(ctx context.Context, prospect queue.ProspectSubmittedPayload) (int, error) {
	args := m.Called(ctx, prospect)
	return args.Int(0), args.Error(1)
}

// MockWhatsAppService
type MockWhatsAppService struct {
	mock.Mock
}

func (m *MockWhatsAppService) SendProspectAcknowledgement(ctx context.Context, phone, name string) error {
	args := m.Called(ctx, phone, name)
	return args.Error(0)
}
