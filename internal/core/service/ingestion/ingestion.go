package ingestion

import (
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"starmus/internal/config"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"strings"
)

type ingestionService struct {
	chunks    port.ChunkStore
	registry  port.SubmissionService
	uow       port.UnitOfWork
	storage   port.BlobStorage
	scheduler port.JobScheduler
	cfg       config.FileUploadConfig
	logger    *slog.Logger
}

// NewIngestionService creates the request facing upload service
func NewIngestionService(
	chunks port.ChunkStore,
	registry port.SubmissionService,
	uow port.UnitOfWork,
	storage port.BlobStorage,
	scheduler port.JobScheduler,
	cfg config.FileUploadConfig,
	logger *slog.Logger,
) port.IngestionService {
	return &ingestionService{
		chunks:    chunks,
		registry:  registry,
		uow:       uow,
		storage:   storage,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger,
	}
}

// AllowedAudioMimeTypes is a whitelist of supported audio MIME types and their extensions.
// This is deterministic and does NOT rely on OS mime databases (Docker-safe).
var AllowedAudioMimeTypes = map[string][]string{
	"audio/mpeg":   {".mp3"},
	"audio/mp4":    {".m4a", ".mp4"},
	"audio/x-m4a":  {".m4a"},
	"audio/aac":    {".aac"},
	"audio/wav":    {".wav"},
	"audio/x-wav":  {".wav"},
	"audio/wave":   {".wav"},
	"audio/ogg":    {".ogg", ".oga", ".opus"},
	"audio/opus":   {".opus"},
	"audio/webm":   {".webm", ".weba"},
	"audio/flac":   {".flac"},
	"audio/x-flac": {".flac"},
	"audio/3gpp":   {".3gp"},
	"audio/amr":    {".amr"},
}

// validateAudioFile checks the declared mime type and extension and returns the normalized mime type
func validateAudioFile(filename string, contentType string) (string, error) {
	mimeType := extractMimeType(contentType)
	if mimeType == "" {
		return "", fmt.Errorf("%w: invalid content type: %s", domain.ErrInvalidFileType, contentType)
	}

	allowedExts, ok := AllowedAudioMimeTypes[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported MIME type: %s", domain.ErrInvalidFileType, mimeType)
	}

	if err := validateExtension(filename, allowedExts); err != nil {
		return "", err
	}
	return mimeType, nil
}

func validateExtension(filename string, allowedExts []string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("%w: no file extension found", domain.ErrInvalidFileType)
	}

	for _, allowed := range allowedExts {
		if ext == allowed {
			return nil
		}
	}

	return fmt.Errorf(
		"%w: extension %s is not allowed (expected one of: %v)",
		domain.ErrInvalidFileType, ext, allowedExts,
	)
}

func extractMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mimeType)
}

// validateRequest validates the attributes and normalizes the mime type in place
func validateRequest(request *domain.SubmissionRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}
	mimeType, err := validateAudioFile(request.Filename, request.MimeType)
	if err != nil {
		return err
	}
	request.MimeType = mimeType
	return nil
}
