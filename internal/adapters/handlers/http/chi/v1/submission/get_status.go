package submission

import (
	"encoding/json"
	"net/http"
	"starmus/internal/core/domain"

	"github.com/google/uuid"
)

// V1StatusResponse is the polling response of a submission
type V1StatusResponse struct {
	ID     uuid.UUID               `json:"id"`
	Status domain.SubmissionStatus `json:"status"`
	Type   domain.RecordKind       `json:"type"`
}

// GetStatusV1 returns the processing status of a submission
func (h *HandlerV1) GetStatusV1(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	view, err := h.submissionService.GetStatus(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := V1StatusResponse{
		ID:     view.ID,
		Status: view.Status,
		Type:   view.Kind,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
