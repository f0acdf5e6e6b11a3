package upload

import (
	"fmt"
	"io"
	"net/http"
	"starmus/internal/core/domain"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UploadChunkV1 handles one multipart chunk delivery
func (h *HandlerV1) UploadChunkV1(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.cfg.MaxChunkSize + uploadSlack); err != nil {
		h.logger.Error("error parsing chunk form", "error", err)
		h.writeError(w, fmt.Errorf("%w: %w", domain.ErrInvalidChunk, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	index, err := strconv.Atoi(r.FormValue("chunk_index"))
	if err != nil {
		http.Error(w, "chunk_index must be an integer", http.StatusBadRequest)
		return
	}
	total, err := strconv.Atoi(r.FormValue("total_chunks"))
	if err != nil {
		http.Error(w, "total_chunks must be an integer", http.StatusBadRequest)
		return
	}

	request, err := submissionRequest(
		r.Header.Get(AuthorHeader),
		r.FormValue("idempotency_key"),
		r.FormValue("title"),
		r.FormValue("recording_type"),
		r.FormValue("language"),
		r.FormValue("dialect"),
		r.FormValue("filename"),
		r.FormValue("content_type"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	part, _, err := r.FormFile("chunk")
	if err != nil {
		http.Error(w, "chunk part is required", http.StatusBadRequest)
		return
	}
	defer part.Close()

	payload, err := io.ReadAll(part)
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %w", domain.ErrInvalidChunk, err))
		return
	}

	result, err := h.ingestionService.UploadChunk(r.Context(), domain.ChunkUpload{
		SessionID: r.FormValue("session_id"),
		Index:     index,
		Total:     total,
		Encoding:  domain.ChunkEncodingMultipart,
		Payload:   payload,
		Request:   request,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResult(w, result)
}

// submissionRequest builds the request attributes shared by every upload route
func submissionRequest(author, key, title, recordingType, language, dialect, filename, contentType string) (domain.SubmissionRequest, error) {
	idempotencyKey, err := uuid.Parse(strings.TrimSpace(key))
	if err != nil {
		return domain.SubmissionRequest{}, fmt.Errorf("%w: idempotency key must be a uuid", domain.ErrInvalidSubmission)
	}

	return domain.SubmissionRequest{
		IdempotencyKey: idempotencyKey,
		AuthorID:       strings.TrimSpace(author),
		Title:          strings.TrimSpace(title),
		RecordingType:  strings.TrimSpace(recordingType),
		Language:       strings.TrimSpace(language),
		Dialect:        strings.TrimSpace(dialect),
		Filename:       filename,
		MimeType:       contentType,
	}, nil
}
