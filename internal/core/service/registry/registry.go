package registry

import (
	"fmt"
	"log/slog"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
)

type registryService struct {
	uow     port.UnitOfWork
	limiter port.RateLimiter
	logger  *slog.Logger
}

// NewRegistryService creates the submission registry
func NewRegistryService(uow port.UnitOfWork, limiter port.RateLimiter, logger *slog.Logger) port.SubmissionService {
	return &registryService{
		uow:     uow,
		limiter: limiter,
		logger:  logger,
	}
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrUpstreamStorage, err)
}
