package pipeline

import (
	"context"
	"encoding/json"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
)

// HandleMessage decodes a job message and runs it. Malformed messages are dropped.
func (p *pipelineService) HandleMessage(ctx context.Context, data []byte) error {
	var message domain.JobMessage
	if err := json.Unmarshal(data, &message); err != nil {
		p.logger.Error("dropping malformed job message", "error", err)
		return nil
	}
	if message.AttachmentID == uuid.Nil {
		p.logger.Error("dropping job message without attachment", "jobID", message.JobID)
		return nil
	}

	p.logger.Info("job received",
		"jobID", message.JobID,
		"attachmentID", message.AttachmentID)
	return p.Run(ctx, message.AttachmentID)
}
