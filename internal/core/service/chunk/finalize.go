package chunk

import (
	"context"

	"github.com/google/uuid"
)

// Finalize binds the completed session to its submission and releases temporary storage
func (c *chunkStore) Finalize(ctx context.Context, sessionID string, submissionID uuid.UUID) error {
	if err := c.uow.UploadSessionRepo().SetSubmission(ctx, sessionID, submissionID); err != nil {
		return upstream(err)
	}
	c.release(ctx, sessionID)

	c.logger.Info("upload session finalized",
		"sessionID", sessionID,
		"submissionID", submissionID)
	return nil
}

// Reopen puts a completed session back to open so a redelivered chunk can complete it again.
// A session another writer already bound to a submission stays as it is.
func (c *chunkStore) Reopen(ctx context.Context, sessionID string) error {
	reopened, err := c.uow.UploadSessionRepo().ReopenCompleted(ctx, sessionID)
	if err != nil {
		return upstream(err)
	}
	if !reopened {
		c.logger.Info("upload session not reopened", "sessionID", sessionID)
		return nil
	}
	c.logger.Warn("upload session reopened", "sessionID", sessionID)
	return nil
}
