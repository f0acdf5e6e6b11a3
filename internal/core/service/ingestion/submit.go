package ingestion

import (
	"context"
	"fmt"
	"io"
	"starmus/internal/core/domain"
)

// submit registers the submission, writes the original once and schedules processing while the
// submission has not started processing yet.
func (s *ingestionService) submit(ctx context.Context, request domain.SubmissionRequest, body io.Reader, size int64) (*domain.Submission, error) {
	submission, created, err := s.registry.CreateIfAbsent(ctx, request.IdempotencyKey, request)
	if err != nil {
		return nil, err
	}

	attachment, err := s.uow.AttachmentRepo().FindByID(ctx, submission.AttachmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamStorage, err)
	}

	if !attachment.Has(domain.ArtifactOriginal) {
		key := domain.ArtifactKey(attachment.ID, domain.ArtifactOriginal)
		if err := s.storage.PutObject(ctx, key, body, size, attachment.MimeType); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamStorage, err)
		}
		if err := s.uow.AttachmentRepo().UpsertArtifact(ctx, attachment.ID, domain.ArtifactOriginal, key); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamStorage, err)
		}
	}

	if submission.Status == domain.SubmissionStatusUploaded {
		if _, err := s.scheduler.Schedule(ctx, attachment.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("submission accepted",
		"submissionID", submission.ID,
		"created", created,
		"status", submission.Status)
	return submission, nil
}
