package pipeline

import (
	"context"
	"log/slog"
	"starmus/internal/config"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type scheduler struct {
	uow       port.UnitOfWork
	publisher port.JobPublisher
	cfg       config.PipelineConfig
	logger    *slog.Logger
}

// NewScheduler creates a job scheduler. Due jobs are published right away,
// delayed ones are left to the dispatcher.
func NewScheduler(uow port.UnitOfWork, publisher port.JobPublisher, cfg config.PipelineConfig, logger *slog.Logger) port.JobScheduler {
	return &scheduler{
		uow:       uow,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Schedule creates the pending job of an attachment unless one is already pending
func (s *scheduler) Schedule(ctx context.Context, attachmentID uuid.UUID) (bool, error) {
	now := time.Now()
	job := domain.ProcessingJob{
		ID:           uuid.New(),
		AttachmentID: attachmentID,
		FireAt:       now.Add(s.cfg.JobDelay),
	}

	created, err := s.uow.JobRepo().Schedule(ctx, job)
	if err != nil {
		return false, upstream(err)
	}
	if !created {
		s.logger.Info("job already pending", "attachmentID", attachmentID)
		return false, nil
	}

	if !job.FireAt.After(now) {
		message := domain.JobMessage{JobID: job.ID, AttachmentID: attachmentID, FireAt: job.FireAt}
		if err := s.publisher.Publish(ctx, message); err != nil {
			// the row stays pending, DispatchDue republishes it
			s.logger.Warn("failed to publish job", "jobID", job.ID, "error", err)
		} else if err := s.uow.JobRepo().MarkPublished(ctx, job.ID, now); err != nil {
			s.logger.Warn("failed to mark job published", "jobID", job.ID, "error", err)
		}
	}

	s.logger.Info("job scheduled",
		"jobID", job.ID,
		"attachmentID", attachmentID,
		"fireAt", job.FireAt)
	return true, nil
}
