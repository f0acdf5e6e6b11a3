package port

import (
	"context"
	"encoding/json"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
)

// SubmissionRepository is an interface to define submission repository interactions
type SubmissionRepository interface {
	CreateIfAbsent(ctx context.Context, submission domain.Submission) (bool, error)
	FindByKey(ctx context.Context, key uuid.UUID) (*domain.Submission, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	FindByAttachmentID(ctx context.Context, attachmentID uuid.UUID) (*domain.Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus) error
}

// AttachmentRepository is an interface to define attachment repository interactions
type AttachmentRepository interface {
	Create(ctx context.Context, attachment domain.Attachment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	UpsertArtifact(ctx context.Context, attachmentID uuid.UUID, kind domain.ArtifactKind, storageKey string) error
}

// MetadataRepository reads and writes named json values on a submission
type MetadataRepository interface {
	Set(ctx context.Context, submissionID uuid.UUID, key string, value json.RawMessage) error
	Get(ctx context.Context, submissionID uuid.UUID, key string) (json.RawMessage, error)
	GetMany(ctx context.Context, submissionID uuid.UUID, keys []string) (map[string]json.RawMessage, error)
}

// RateLimiter bounds accepted submissions per author within a rolling window
type RateLimiter interface {
	Allow(ctx context.Context, authorID string, token string) (bool, error)
}

// SubmissionService is the submission registry
type SubmissionService interface {
	FindByKey(ctx context.Context, key uuid.UUID) (*domain.Submission, error)
	CreateIfAbsent(ctx context.Context, key uuid.UUID, request domain.SubmissionRequest) (*domain.Submission, bool, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*domain.StatusView, error)
	GetData(ctx context.Context, id uuid.UUID) (*domain.SubmissionData, error)
}
