package cleanup

import (
	"log/slog"
	"starmus/internal/core/port"
)

type cleanupService struct {
	uow     port.UnitOfWork
	storage port.BlobStorage
	logger  *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, storage port.BlobStorage, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:     uow,
		storage: storage,
		logger:  logger,
	}
}
