package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"starmus/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// Run processes an attachment: waveform extraction, then transcoding and archival.
// A stage 2 failure is recorded on the submission and is not returned, so the trigger is not retried.
// The returned error is set only when the submission could not be moved to processing or to its final state.
// Without a pending job a failed submission is left alone: only a newly scheduled job runs it again.
func (p *pipelineService) Run(ctx context.Context, attachmentID uuid.UUID) error {
	consumed, err := p.uow.JobRepo().Consume(ctx, attachmentID)
	if err != nil {
		return upstream(err)
	}
	if !consumed {
		p.logger.Info("no pending job for attachment", "attachmentID", attachmentID)
	}

	submission, err := p.uow.SubmissionRepo().FindByAttachmentID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			p.logger.Warn("job for unknown attachment dropped", "attachmentID", attachmentID)
			return nil
		}
		return upstream(err)
	}

	attachment, err := p.uow.AttachmentRepo().FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, domain.ErrAttachmentNotFound) {
			p.logger.Warn("job for unknown attachment dropped", "attachmentID", attachmentID)
			return nil
		}
		return upstream(err)
	}

	if !consumed && submission.Status == domain.SubmissionStatusFailedProcessing {
		p.logger.Warn("ignoring job message for failed submission",
			"submissionID", submission.ID,
			"attachmentID", attachmentID)
		return nil
	}
	if submission.Status.IsTerminal() {
		p.logger.Info("re-running finished submission", "submissionID", submission.ID, "status", submission.Status)
	}

	if err := p.uow.SubmissionRepo().UpdateStatus(ctx, submission.ID, domain.SubmissionStatusProcessing); err != nil {
		return upstream(err)
	}

	if !attachment.Has(domain.ArtifactOriginal) {
		return p.fail(ctx, submission, "download", fmt.Errorf("%w: original missing", domain.ErrProcessingStage))
	}

	workDir, err := os.MkdirTemp(p.cfg.WorkDir, "starmus-"+attachmentID.String()+"-")
	if err != nil {
		return p.fail(ctx, submission, "download", fmt.Errorf("%w: %w", domain.ErrProcessingStage, err))
	}
	defer os.RemoveAll(workDir)

	source := filepath.Join(workDir, "original")
	if err := p.storage.DownloadFile(ctx, attachment.Artifacts[domain.ArtifactOriginal], source); err != nil {
		return p.fail(ctx, submission, "download", fmt.Errorf("%w: %w", domain.ErrProcessingStage, err))
	}

	p.extractWaveform(ctx, submission, attachment, source)

	if err := p.transcode(ctx, submission, attachment, source, workDir); err != nil {
		return p.fail(ctx, submission, "transcode", err)
	}

	if err := p.uow.SubmissionRepo().UpdateStatus(ctx, submission.ID, domain.SubmissionStatusComplete); err != nil {
		return upstream(err)
	}

	p.logger.Info("processing complete",
		"submissionID", submission.ID,
		"attachmentID", attachmentID)
	return nil
}

type processingError struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
	At    string `json:"at"`
}

// fail records the failure and moves the submission to failed_processing
func (p *pipelineService) fail(ctx context.Context, submission *domain.Submission, stage string, cause error) error {
	p.logger.Error("processing failed",
		"submissionID", submission.ID,
		"stage", stage,
		"error", cause)

	detail, err := json.Marshal(processingError{
		Stage: stage,
		Error: cause.Error(),
		At:    time.Now().UTC().Format(time.RFC3339),
	})
	if err == nil {
		if err := p.uow.MetadataRepo().Set(ctx, submission.ID, domain.MetaProcessingError, detail); err != nil {
			p.logger.Warn("failed to record processing error", "submissionID", submission.ID, "error", err)
		}
	}

	if err := p.uow.SubmissionRepo().UpdateStatus(ctx, submission.ID, domain.SubmissionStatusFailedProcessing); err != nil {
		return upstream(err)
	}
	return nil
}

func (p *pipelineService) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.StageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.cfg.StageTimeout)
}
