package registry

import (
	"context"
	"fmt"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"

	"github.com/google/uuid"
)

// CreateIfAbsent returns the submission for key, creating it with its attachment row when absent.
// The rate limit applies to every call, new key or not.
func (r *registryService) CreateIfAbsent(ctx context.Context, key uuid.UUID, request domain.SubmissionRequest) (*domain.Submission, bool, error) {
	request.IdempotencyKey = key
	if err := request.Validate(); err != nil {
		return nil, false, err
	}

	allowed, err := r.limiter.Allow(ctx, request.AuthorID, key.String())
	if err != nil {
		return nil, false, upstream(err)
	}
	if !allowed {
		return nil, false, fmt.Errorf("%w: author %s", domain.ErrRateLimited, request.AuthorID)
	}

	submission := domain.Submission{
		ID:             uuid.New(),
		IdempotencyKey: key,
		AuthorID:       request.AuthorID,
		Title:          request.Title,
		RecordingType:  request.RecordingType,
		Language:       request.Language,
		Dialect:        request.Dialect,
		Kind:           domain.RecordKindRecording,
		Status:         domain.SubmissionStatusUploaded,
		AttachmentID:   uuid.New(),
	}

	var created bool
	err = r.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		inserted, err := uow.SubmissionRepo().CreateIfAbsent(ctx, submission)
		if err != nil {
			return err
		}
		created = inserted
		if !inserted {
			return nil
		}

		return uow.AttachmentRepo().Create(ctx, domain.Attachment{
			ID:           submission.AttachmentID,
			SubmissionID: submission.ID,
			Filename:     request.Filename,
			MimeType:     request.MimeType,
			SizeBytes:    request.SizeBytes,
		})
	})
	if err != nil {
		return nil, false, upstream(err)
	}

	existing, err := r.uow.SubmissionRepo().FindByKey(ctx, key)
	if err != nil {
		return nil, false, upstream(err)
	}

	if created {
		r.logger.Info("submission created",
			"submissionID", existing.ID,
			"attachmentID", existing.AttachmentID,
			"authorID", existing.AuthorID)
	} else {
		r.logger.Info("duplicate submission resolved", "submissionID", existing.ID, "key", key)
	}
	return existing, created, nil
}
