package upload

import (
	"encoding/json"
	"fmt"
	"net/http"
	"starmus/internal/core/domain"
)

// V1LegacyChunkRequest is the JSON chunk body sent by older clients
type V1LegacyChunkRequest struct {
	SessionID      string `json:"sessionId"`
	Index          int    `json:"index"`
	Total          int    `json:"total"`
	DataBase64     string `json:"data_base64"`
	IdempotencyKey string `json:"idempotencyKey"`
	Title          string `json:"title"`
	RecordingType  string `json:"recordingType"`
	Language       string `json:"language"`
	Dialect        string `json:"dialect"`
	Filename       string `json:"filename"`
	ContentType    string `json:"contentType"`
}

// UploadChunkLegacyV1 handles one base64 chunk delivered as JSON
func (h *HandlerV1) UploadChunkLegacyV1(w http.ResponseWriter, r *http.Request) {
	var req V1LegacyChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding legacy chunk request", "error", err)
		h.writeError(w, fmt.Errorf("%w: %w", domain.ErrInvalidChunk, err))
		return
	}

	request, err := submissionRequest(
		r.Header.Get(AuthorHeader),
		req.IdempotencyKey,
		req.Title,
		req.RecordingType,
		req.Language,
		req.Dialect,
		req.Filename,
		req.ContentType,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.ingestionService.UploadChunk(r.Context(), domain.ChunkUpload{
		SessionID: req.SessionID,
		Index:     req.Index,
		Total:     req.Total,
		Encoding:  domain.ChunkEncodingBase64JSON,
		Payload:   []byte(req.DataBase64),
		Request:   request,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResult(w, result)
}
