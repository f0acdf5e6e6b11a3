package chunk

import (
	"context"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockChunkStore is a mock implementation of ChunkStore
type MockChunkStore struct {
	mock.Mock
}

// NewMockChunkStore creates a new MockChunkStore
func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{}
}

func (m *MockChunkStore) BeginOrResume(ctx context.Context, sessionID string, total int, encoding domain.ChunkEncoding, request domain.SubmissionRequest) (*domain.UploadSession, error) {
	args := m.Called(ctx, sessionID, total, encoding, request)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockChunkStore) WriteChunk(ctx context.Context, sessionID string, index int, data []byte) (*domain.ChunkResult, error) {
	args := m.Called(ctx, sessionID, index, data)
	return args.Get(0).(*domain.ChunkResult), args.Error(1)
}

func (m *MockChunkStore) Finalize(ctx context.Context, sessionID string, submissionID uuid.UUID) error {
	args := m.Called(ctx, sessionID, submissionID)
	return args.Error(0)
}

func (m *MockChunkStore) Reopen(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockChunkStore) Abort(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
