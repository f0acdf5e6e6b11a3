package submission

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// V1DataResponse carries the large derived blobs of a submission, null when absent
type V1DataResponse struct {
	ID            uuid.UUID       `json:"id"`
	Waveform      json.RawMessage `json:"waveform"`
	Transcription json.RawMessage `json:"transcription"`
}

// GetDataV1 returns the waveform and transcription of a submission
func (h *HandlerV1) GetDataV1(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	data, err := h.submissionService.GetData(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := V1DataResponse{
		ID:            data.ID,
		Waveform:      data.Waveform,
		Transcription: data.Transcription,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
