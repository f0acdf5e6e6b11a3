package cleanup

import (
	"context"
	"fmt"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"time"
)

// CleanupExpiredSessions removes sessions idle since before, whatever their status,
// together with their temporary chunks. A failing session is logged and skipped.
func (c *cleanupService) CleanupExpiredSessions(ctx context.Context, before time.Time) error {
	sessions, err := c.uow.UploadSessionRepo().FindAllExpired(ctx, before)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamStorage, err)
	}

	removed := 0
	for _, session := range sessions {
		if err := c.storage.DeletePrefix(ctx, domain.ChunkPrefix(session.ID)); err != nil {
			c.logger.Error("Failed to delete session chunks", "sessionID", session.ID, "err", err)
			continue
		}

		txErr := c.uow.Execute(ctx, func(uow port.UnitOfWork) error {
			if session.Status == domain.UploadSessionStatusOpen {
				if err := uow.UploadSessionRepo().UpdateStatus(ctx, session.ID, domain.UploadSessionStatusAborted); err != nil {
					return err
				}
			}
			return uow.UploadSessionRepo().Delete(ctx, session.ID)
		})
		if txErr != nil {
			c.logger.Error("Failed to delete expired session", "sessionID", session.ID, "err", txErr)
			continue
		}
		removed++
	}

	c.logger.Info("expired sessions cleanup completed", "found", len(sessions), "removed", removed)
	return nil
}
