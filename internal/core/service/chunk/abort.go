package chunk

import (
	"context"
	"errors"
	"starmus/internal/core/domain"
)

// Abort discards an open session and its chunks. Completed sessions are left alone.
func (c *chunkStore) Abort(ctx context.Context, sessionID string) error {
	session, err := c.uow.UploadSessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		return upstream(err)
	}

	switch session.Status {
	case domain.UploadSessionStatusCompleted:
		c.logger.Info("abort ignored on completed session", "sessionID", sessionID)
		return nil
	case domain.UploadSessionStatusOpen:
		if err := c.uow.UploadSessionRepo().UpdateStatus(ctx, sessionID, domain.UploadSessionStatusAborted); err != nil {
			return upstream(err)
		}
	}

	c.release(ctx, sessionID)
	c.logger.Info("upload session aborted", "sessionID", sessionID)
	return nil
}
