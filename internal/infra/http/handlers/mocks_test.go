package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/queue"
)

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
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipientRepository) Update(ctx context.Context, r *entity.EmailRecipient) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipientRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockProspectRepository struct {
	mock.Mock
}

func (m *MockProspectRepository) Create(ctx context.Context, p *entity.Prospect) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prospect), args.Error(1)
}

func (m *MockProspectRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishProspectSubmitted(ctx context.Context, payload queue.ProspectSubmittedPayload) error {
	return m.Called(ctx, payload).Error(0)
}
