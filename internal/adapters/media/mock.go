package media

import (
	"context"
	"starmus/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockWaveformExtractor struct {
	mock.Mock
}

func NewMockWaveformExtractor() *MockWaveformExtractor {
	return &MockWaveformExtractor{}
}

func (m *MockWaveformExtractor) Extract(ctx context.Context, sourcePath string) ([]byte, error) {
	args := m.Called(ctx, sourcePath)
	return args.Get(0).([]byte), args.Error(1)
}

type MockTranscoder struct {
	mock.Mock
}

func NewMockTranscoder() *MockTranscoder {
	return &MockTranscoder{}
}

func (m *MockTranscoder) Transcode(ctx context.Context, sourcePath string, outDir string) (*domain.TranscodeOutput, error) {
	args := m.Called(ctx, sourcePath, outDir)
	return args.Get(0).(*domain.TranscodeOutput), args.Error(1)
}
