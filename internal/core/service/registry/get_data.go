package registry

import (
	"context"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
)

// GetData returns the derived json blobs of a recording. Keys not produced yet are nil.
func (r *registryService) GetData(ctx context.Context, id uuid.UUID) (*domain.SubmissionData, error) {
	submission, err := r.findRecording(ctx, id)
	if err != nil {
		return nil, err
	}

	values, err := r.uow.MetadataRepo().GetMany(ctx, submission.ID, []string{domain.MetaWaveform, domain.MetaTranscription})
	if err != nil {
		return nil, upstream(err)
	}

	return &domain.SubmissionData{
		ID:            submission.ID,
		Waveform:      values[domain.MetaWaveform],
		Transcription: values[domain.MetaTranscription],
	}, nil
}
