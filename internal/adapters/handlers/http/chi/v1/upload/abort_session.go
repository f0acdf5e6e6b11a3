package upload

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AbortSessionV1 discards an in-flight chunked upload
func (h *HandlerV1) AbortSessionV1(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	if err := h.ingestionService.AbortSession(r.Context(), sessionID); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
