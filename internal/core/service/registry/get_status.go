package registry

import (
	"context"
	"errors"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
)

// GetStatus returns the polling view of a recording
func (r *registryService) GetStatus(ctx context.Context, id uuid.UUID) (*domain.StatusView, error) {
	submission, err := r.findRecording(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.StatusView{
		ID:     submission.ID,
		Status: submission.Status,
		Kind:   submission.Kind,
	}, nil
}

func (r *registryService) findRecording(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	submission, err := r.uow.SubmissionRepo().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			return nil, err
		}
		return nil, upstream(err)
	}

	if submission.Kind != domain.RecordKindRecording {
		return nil, domain.ErrWrongRecordKind
	}
	return submission, nil
}
