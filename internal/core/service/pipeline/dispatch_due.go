package pipeline

import (
	"context"
	"starmus/internal/core/domain"
	"time"
)

// DispatchDue republishes pending jobs that are overdue by more than the grace period,
// covering delayed jobs and publishes lost before reaching the stream.
// A job published less than RepublishAfter ago is assumed to be waiting in the stream and is skipped.
func (p *pipelineService) DispatchDue(ctx context.Context, now time.Time) error {
	jobs, err := p.uow.JobRepo().FindDue(ctx, now.Add(-p.cfg.DispatchGrace), now.Add(-p.cfg.RepublishAfter))
	if err != nil {
		return upstream(err)
	}

	published := 0
	for _, job := range jobs {
		message := domain.JobMessage{JobID: job.ID, AttachmentID: job.AttachmentID, FireAt: job.FireAt}
		if err := p.publisher.Publish(ctx, message); err != nil {
			p.logger.Error("failed to dispatch job", "jobID", job.ID, "error", err)
			continue
		}
		published++

		if err := p.uow.JobRepo().MarkPublished(ctx, job.ID, now); err != nil {
			p.logger.Warn("failed to mark job published", "jobID", job.ID, "error", err)
		}
	}

	if len(jobs) > 0 {
		p.logger.Info("due jobs dispatched", "found", len(jobs), "published", published)
	}
	return nil
}
