package port

import (
	"context"
	"starmus/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// JobRepository stores pending processing jobs, at most one per attachment
type JobRepository interface {
	Schedule(ctx context.Context, job domain.ProcessingJob) (bool, error)
	Consume(ctx context.Context, attachmentID uuid.UUID) (bool, error)
	// FindDue lists the jobs due before the given instant that were never published
	// or last published before publishedBefore
	FindDue(ctx context.Context, before, publishedBefore time.Time) ([]domain.ProcessingJob, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
}

// JobPublisher hands a job to the background trigger transport
type JobPublisher interface {
	Publish(ctx context.Context, message domain.JobMessage) error
}

// JobScheduler schedules processing for an attachment
type JobScheduler interface {
	Schedule(ctx context.Context, attachmentID uuid.UUID) (bool, error)
}

// PipelineService runs the processing stages of an attachment
type PipelineService interface {
	MessageService
	Run(ctx context.Context, attachmentID uuid.UUID) error
	DispatchDue(ctx context.Context, now time.Time) error
}
