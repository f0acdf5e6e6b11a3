package port

import (
	"context"
	"starmus/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// UploadSessionRepository is an interface to interact with upload session repositories
type UploadSessionRepository interface {
	CreateIfAbsent(ctx context.Context, session domain.UploadSession) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.UploadSession, error)
	// RecordChunk stores a chunk row, returns false when the session is no longer open
	RecordChunk(ctx context.Context, sessionID string, index int, size int64) (bool, error)
	ListChunks(ctx context.Context, sessionID string) ([]domain.ChunkRecord, error)
	DeleteChunks(ctx context.Context, sessionID string) error
	MarkCompleted(ctx context.Context, id string) (bool, error)
	// ReclaimCompleted takes over a completed session that got no submission since staleBefore
	ReclaimCompleted(ctx context.Context, id string, staleBefore time.Time) (bool, error)
	ReopenCompleted(ctx context.Context, id string) (bool, error)
	SetSubmission(ctx context.Context, id string, submissionID uuid.UUID) error
	UpdateStatus(ctx context.Context, id string, status domain.UploadSessionStatus) error
	FindAllExpired(ctx context.Context, before time.Time) ([]domain.UploadSession, error)
	Delete(ctx context.Context, id string) error
}

// ChunkStore tracks in-flight chunked uploads and reassembles them
type ChunkStore interface {
	BeginOrResume(ctx context.Context, sessionID string, total int, encoding domain.ChunkEncoding, request domain.SubmissionRequest) (*domain.UploadSession, error)
	WriteChunk(ctx context.Context, sessionID string, index int, data []byte) (*domain.ChunkResult, error)
	Finalize(ctx context.Context, sessionID string, submissionID uuid.UUID) error
	Reopen(ctx context.Context, sessionID string) error
	Abort(ctx context.Context, sessionID string) error
}
