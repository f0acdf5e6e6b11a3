package ingestion

import (
	"context"
	"starmus/internal/core/domain"
	"starmus/internal/core/service/chunk"
)

// UploadChunk accepts one chunk. The call that completes the session creates (or resolves)
// the submission, stores the original and schedules processing.
func (s *ingestionService) UploadChunk(ctx context.Context, upload domain.ChunkUpload) (*domain.UploadResult, error) {
	if err := validateRequest(&upload.Request); err != nil {
		return nil, err
	}

	data, err := chunk.Decode(upload.Encoding, upload.Payload)
	if err != nil {
		return nil, err
	}

	if _, err := s.chunks.BeginOrResume(ctx, upload.SessionID, upload.Total, upload.Encoding, upload.Request); err != nil {
		return nil, err
	}

	result, err := s.chunks.WriteChunk(ctx, upload.SessionID, upload.Index, data)
	if err != nil {
		return nil, err
	}

	switch result.State {
	case domain.ChunkStateAlreadyComplete:
		return &domain.UploadResult{
			State:        domain.UploadStateComplete,
			SubmissionID: result.Session.SubmissionID,
			Received:     result.Received,
			Total:        result.Total,
		}, nil
	case domain.ChunkStateComplete:
		return s.completeSession(ctx, result)
	default:
		return &domain.UploadResult{
			State:    domain.UploadStatePending,
			Received: result.Received,
			Total:    result.Total,
		}, nil
	}
}

// completeSession hands the assembled stream to the registry. On failure the session is reopened
// so a redelivered chunk completes it again.
func (s *ingestionService) completeSession(ctx context.Context, result *domain.ChunkResult) (*domain.UploadResult, error) {
	defer result.Assembled.Close()
	session := result.Session

	request := session.Request
	request.SizeBytes = result.Size

	submission, err := s.submit(ctx, request, result.Assembled, result.Size)
	if err == nil {
		err = s.chunks.Finalize(ctx, session.ID, submission.ID)
	}
	if err != nil {
		if reopenErr := s.chunks.Reopen(ctx, session.ID); reopenErr != nil {
			s.logger.Error("failed to reopen session", "sessionID", session.ID, "error", reopenErr)
		}
		return nil, err
	}

	return &domain.UploadResult{
		State:        domain.UploadStateComplete,
		SubmissionID: &submission.ID,
		Received:     result.Received,
		Total:        result.Total,
	}, nil
}
