package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingJob is a pending unit of background work for one attachment
type ProcessingJob struct {
	ID           uuid.UUID
	AttachmentID uuid.UUID
	FireAt       time.Time
	PublishedAt  *time.Time
	CreatedAt    time.Time
}

// JobMessage is the payload published to the job subject
type JobMessage struct {
	JobID        uuid.UUID `json:"job_id"`
	AttachmentID uuid.UUID `json:"attachment_id"`
	FireAt       time.Time `json:"fire_at"`
}
