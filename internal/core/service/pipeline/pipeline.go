package pipeline

import (
	"fmt"
	"log/slog"
	"starmus/internal/config"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
)

type pipelineService struct {
	uow        port.UnitOfWork
	storage    port.BlobStorage
	waveform   port.WaveformExtractor
	transcoder port.Transcoder
	publisher  port.JobPublisher
	cfg        config.PipelineConfig
	logger     *slog.Logger
}

// NewPipelineService creates the processing orchestrator
func NewPipelineService(
	uow port.UnitOfWork,
	storage port.BlobStorage,
	waveform port.WaveformExtractor,
	transcoder port.Transcoder,
	publisher port.JobPublisher,
	cfg config.PipelineConfig,
	logger *slog.Logger,
) port.PipelineService {
	return &pipelineService{
		uow:        uow,
		storage:    storage,
		waveform:   waveform,
		transcoder: transcoder,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
	}
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrUpstreamStorage, err)
}
