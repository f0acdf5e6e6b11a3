package submission

import (
	"errors"
	"log/slog"
	"net/http"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerV1 is the handler for v1 submission routes
type HandlerV1 struct {
	submissionService port.SubmissionService
	logger            *slog.Logger
}

// NewSubmissionHandlerV1 creates HandlerV1
func NewSubmissionHandlerV1(service port.SubmissionService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		submissionService: service,
		logger:            logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}/status", h.GetStatusV1)
	router.Get("/{id}/data", h.GetDataV1)

	return router
}

func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *HandlerV1) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound):
		http.Error(w, "submission not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrWrongRecordKind):
		http.Error(w, "not a recording", http.StatusForbidden)
	default:
		h.logger.Error("error reading submission", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}
}
