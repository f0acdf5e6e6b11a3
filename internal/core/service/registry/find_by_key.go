package registry

import (
	"context"
	"errors"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
)

// FindByKey resolves a submission by its idempotency key
func (r *registryService) FindByKey(ctx context.Context, key uuid.UUID) (*domain.Submission, error) {
	submission, err := r.uow.SubmissionRepo().FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			return nil, err
		}
		return nil, upstream(err)
	}
	return submission, nil
}
