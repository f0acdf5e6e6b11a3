package chunk

import (
	"context"
	"fmt"
	"log/slog"
	"starmus/internal/config"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
)

const maxSessionIDLength = 128

type chunkStore struct {
	uow     port.UnitOfWork
	storage port.BlobStorage
	cfg     config.FileUploadConfig
	logger  *slog.Logger
}

// NewChunkStore creates a chunk store keeping bookkeeping in the repositories and bytes in storage
func NewChunkStore(uow port.UnitOfWork, storage port.BlobStorage, cfg config.FileUploadConfig, logger *slog.Logger) port.ChunkStore {
	return &chunkStore{
		uow:     uow,
		storage: storage,
		cfg:     cfg,
		logger:  logger,
	}
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrUpstreamStorage, err)
}

// release drops temporary chunk objects and rows. Failures are left to the expired session sweep.
func (c *chunkStore) release(ctx context.Context, sessionID string) {
	if err := c.storage.DeletePrefix(ctx, domain.ChunkPrefix(sessionID)); err != nil {
		c.logger.Warn("failed to release chunk objects", "sessionID", sessionID, "error", err)
		return
	}
	if err := c.uow.UploadSessionRepo().DeleteChunks(ctx, sessionID); err != nil {
		c.logger.Warn("failed to release chunk rows", "sessionID", sessionID, "error", err)
	}
}
