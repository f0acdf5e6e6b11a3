package registry

import (
	"context"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRegistryService is a mock implementation of SubmissionService
type MockRegistryService struct {
	mock.Mock
}

// NewMockRegistryService creates a new MockRegistryService
func NewMockRegistryService() *MockRegistryService {
	return &MockRegistryService{}
}

func (m *MockRegistryService) FindByKey(ctx context.Context, key uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockRegistryService) CreateIfAbsent(ctx context.Context, key uuid.UUID, request domain.SubmissionRequest) (*domain.Submission, bool, error) {
	args := m.Called(ctx, key, request)
	return args.Get(0).(*domain.Submission), args.Bool(1), args.Error(2)
}

func (m *MockRegistryService) GetStatus(ctx context.Context, id uuid.UUID) (*domain.StatusView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.StatusView), args.Error(1)
}

func (m *MockRegistryService) GetData(ctx context.Context, id uuid.UUID) (*domain.SubmissionData, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.SubmissionData), args.Error(1)
}
