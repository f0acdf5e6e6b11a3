package chunk

import (
	"context"
	"errors"
	"fmt"
	"starmus/internal/core/domain"
)

// BeginOrResume opens the session on first contact and returns the stored one afterwards.
func (c *chunkStore) BeginOrResume(ctx context.Context, sessionID string, total int, encoding domain.ChunkEncoding, request domain.SubmissionRequest) (*domain.UploadSession, error) {
	if sessionID == "" || len(sessionID) > maxSessionIDLength {
		return nil, fmt.Errorf("%w: invalid session id", domain.ErrInvalidChunk)
	}
	if total < 1 || total > c.cfg.MaxChunks {
		return nil, fmt.Errorf("%w: total chunks must be between 1 and %d", domain.ErrInvalidChunk, c.cfg.MaxChunks)
	}

	created, err := c.uow.UploadSessionRepo().CreateIfAbsent(ctx, domain.UploadSession{
		ID:          sessionID,
		TotalChunks: total,
		Encoding:    encoding,
		Status:      domain.UploadSessionStatusOpen,
		Request:     request,
	})
	if err != nil {
		return nil, upstream(err)
	}

	session, err := c.uow.UploadSessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session %s vanished", domain.ErrInvalidChunk, sessionID)
		}
		return nil, upstream(err)
	}

	if session.Status == domain.UploadSessionStatusAborted {
		return nil, fmt.Errorf("%w: session %s was aborted", domain.ErrInvalidChunk, sessionID)
	}
	if session.TotalChunks != total {
		return nil, fmt.Errorf("%w: session %s expects %d chunks, got %d", domain.ErrInvalidChunk, sessionID, session.TotalChunks, total)
	}

	if created {
		c.logger.Info("upload session opened",
			"sessionID", sessionID,
			"totalChunks", total,
			"encoding", encoding)
	}
	return session, nil
}
