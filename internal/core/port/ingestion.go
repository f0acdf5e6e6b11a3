package port

import (
	"context"
	"io"
	"starmus/internal/core/domain"
)

// IngestionService is the request facing upload service
type IngestionService interface {
	UploadChunk(ctx context.Context, upload domain.ChunkUpload) (*domain.UploadResult, error)
	UploadFile(ctx context.Context, request domain.SubmissionRequest, body io.Reader, size int64) (*domain.UploadResult, error)
	AbortSession(ctx context.Context, sessionID string) error
}
