package pipeline

import (
	"context"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockScheduler is a mock implementation of JobScheduler
type MockScheduler struct {
	mock.Mock
}

// NewMockScheduler creates a new MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

func (m *MockScheduler) Schedule(ctx context.Context, attachmentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, attachmentID)
	return args.Bool(0), args.Error(1)
}

// MockPublisher is a mock implementation of JobPublisher
type MockPublisher struct {
	mock.Mock
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, message domain.JobMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
