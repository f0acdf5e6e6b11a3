package ingestion

import (
	"context"
	"io"
	"starmus/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockIngestionService is a mock implementation of IngestionService
type MockIngestionService struct {
	mock.Mock
}

// NewMockIngestionService creates a new MockIngestionService
func NewMockIngestionService() *MockIngestionService {
	return &MockIngestionService{}
}

func (m *MockIngestionService) UploadChunk(ctx context.Context, upload domain.ChunkUpload) (*domain.UploadResult, error) {
	args := m.Called(ctx, upload)
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockIngestionService) UploadFile(ctx context.Context, request domain.SubmissionRequest, body io.Reader, size int64) (*domain.UploadResult, error) {
	args := m.Called(ctx, request, body, size)
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockIngestionService) AbortSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
