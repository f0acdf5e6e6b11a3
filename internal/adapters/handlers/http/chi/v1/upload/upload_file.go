package upload

import (
	"fmt"
	"net/http"
	"starmus/internal/core/domain"
)

// fileFormMemory is the part of a whole-file form kept in memory, the rest spools to disk
const fileFormMemory = 32 << 20

// UploadFileV1 handles a whole file sent in one multipart request
func (h *HandlerV1) UploadFileV1(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(fileFormMemory); err != nil {
		h.logger.Error("error parsing file form", "error", err)
		h.writeError(w, fmt.Errorf("%w: %w", domain.ErrInvalidFileType, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file part is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := r.FormValue("filename")
	if filename == "" {
		filename = header.Filename
	}
	contentType := r.FormValue("content_type")
	if contentType == "" {
		contentType = header.Header.Get("Content-Type")
	}

	request, err := submissionRequest(
		r.Header.Get(AuthorHeader),
		r.FormValue("idempotency_key"),
		r.FormValue("title"),
		r.FormValue("recording_type"),
		r.FormValue("language"),
		r.FormValue("dialect"),
		filename,
		contentType,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.ingestionService.UploadFile(r.Context(), request, file, header.Size)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResult(w, result)
}
