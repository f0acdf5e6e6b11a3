package pipeline

import (
	"bytes"
	"context"
	"starmus/internal/core/domain"
)

// extractWaveform is stage 1. Its failures are logged and never fail the submission.
func (p *pipelineService) extractWaveform(ctx context.Context, submission *domain.Submission, attachment *domain.Attachment, source string) {
	stageCtx, cancel := p.stageContext(ctx)
	defer cancel()

	peaks, err := p.waveform.Extract(stageCtx, source)
	if err != nil {
		p.logger.Warn("waveform extraction failed", "submissionID", submission.ID, "error", err)
		return
	}

	key := domain.ArtifactKey(attachment.ID, domain.ArtifactWaveform)
	if err := p.storage.PutObject(ctx, key, bytes.NewReader(peaks), int64(len(peaks)), "application/json"); err != nil {
		p.logger.Warn("failed to store waveform", "submissionID", submission.ID, "error", err)
		return
	}
	if err := p.uow.AttachmentRepo().UpsertArtifact(ctx, attachment.ID, domain.ArtifactWaveform, key); err != nil {
		p.logger.Warn("failed to record waveform artifact", "submissionID", submission.ID, "error", err)
		return
	}
	if err := p.uow.MetadataRepo().Set(ctx, submission.ID, domain.MetaWaveform, peaks); err != nil {
		p.logger.Warn("failed to write waveform metadata", "submissionID", submission.ID, "error", err)
		return
	}

	p.logger.Info("waveform extracted", "submissionID", submission.ID, "bytes", len(peaks))
}
