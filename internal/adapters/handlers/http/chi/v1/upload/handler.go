package upload

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"starmus/internal/config"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// AuthorHeader carries the author id set by the upstream gateway
const AuthorHeader = "X-Author-ID"

// uploadSlack covers multipart framing and attribute fields around the payload
const uploadSlack = 1 << 20

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	ingestionService port.IngestionService
	cfg              config.FileUploadConfig
	logger           *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.IngestionService, cfg config.FileUploadConfig, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		ingestionService: service,
		cfg:              cfg,
		logger:           logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(RequireAuthor)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(h.cfg.MaxRequestBytes))
		r.Post("/chunk", h.UploadChunkV1)
		r.Post("/chunk/legacy", h.UploadChunkLegacyV1)
	})
	router.With(middleware.RequestSize(h.cfg.MaxFileSize+uploadSlack)).Post("/file", h.UploadFileV1)
	router.Delete("/session/{sessionID}", h.AbortSessionV1)

	return router
}

// RequireAuthor rejects requests without an author id
func RequireAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get(AuthorHeader)) == "" {
			http.Error(w, "missing author", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// V1UploadResponse is the response to any upload call
type V1UploadResponse struct {
	Status       domain.UploadState `json:"status"`
	SubmissionID *uuid.UUID         `json:"submission_id,omitempty"`
	Received     int                `json:"received"`
	Total        int                `json:"total"`
}

func (h *HandlerV1) writeResult(w http.ResponseWriter, result *domain.UploadResult) {
	status := http.StatusOK
	if result.State == domain.UploadStateComplete {
		status = http.StatusCreated
	}

	resp := V1UploadResponse{
		Status:       result.State,
		SubmissionID: result.SubmissionID,
		Received:     result.Received,
		Total:        result.Total,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func (h *HandlerV1) writeError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, domain.ErrInvalidChunk),
		errors.Is(err, domain.ErrInvalidSubmission),
		errors.Is(err, domain.ErrInvalidFileType),
		errors.Is(err, domain.ErrFileSizeTooBig),
		errors.Is(err, domain.ErrContentTypeMismatch):
		h.logger.Warn("invalid upload", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrRateLimited):
		http.Error(w, "too many submissions", http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	default:
		h.logger.Error("upload failed", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}
}
