package upload_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	http2 "net/http"
	"net/http/httptest"
	"starmus/internal/adapters/handlers/http/chi"
	"starmus/internal/adapters/handlers/http/chi/v1/upload"
	"starmus/internal/config"
	"starmus/internal/core/domain"
	"starmus/internal/core/service/ingestion"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var testUploadConfig = config.FileUploadConfig{
	MaxChunkSize:    1 << 20,
	MaxChunks:       100,
	MaxFileSize:     4 << 20,
	MaxRequestBytes: 2 << 20,
}

func newRouter(service *ingestion.MockIngestionService) http2.Handler {
	handler := upload.NewUploadHandlerV1(service, testUploadConfig, discardLogger)
	return chi.NewRouter(discardLogger, handler, nil, "")
}

func chunkForm(t *testing.T, fields map[string]string, partName string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if partName != "" {
		part, err := writer.CreateFormFile(partName, "blob")
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func chunkFields(key uuid.UUID) map[string]string {
	return map[string]string{
		"session_id":      "session-1",
		"chunk_index":     "0",
		"total_chunks":    "2",
		"idempotency_key": key.String(),
		"title":           "  Harvest song ",
		"language":        "wo",
		"filename":        "take.webm",
		"content_type":    "audio/webm",
	}
}

func TestUploadChunkV1(t *testing.T) {
	t.Run("UploadChunkV1 - Pending chunk", func(t *testing.T) {
		// Arrange
		key := uuid.New()
		mockService := ingestion.NewMockIngestionService()
		mockService.On("UploadChunk", mock.Anything, mock.MatchedBy(func(u domain.ChunkUpload) bool {
			return u.SessionID == "session-1" &&
				u.Index == 0 &&
				u.Total == 2 &&
				u.Encoding == domain.ChunkEncodingMultipart &&
				string(u.Payload) == "abc" &&
				u.Request.IdempotencyKey == key &&
				u.Request.AuthorID == "author-1" &&
				u.Request.Title == "Harvest song" &&
				u.Request.MimeType == "audio/webm"
		})).Return(&domain.UploadResult{State: domain.UploadStatePending, Received: 1, Total: 2}, nil)

		body, contentType := chunkForm(t, chunkFields(key), "chunk", []byte("abc"))
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		mockService.AssertExpectations(t)
		var response upload.V1UploadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, domain.UploadStatePending, response.Status)
		assert.Nil(t, response.SubmissionID)
		assert.Equal(t, 1, response.Received)
		assert.Equal(t, 2, response.Total)
	})

	t.Run("UploadChunkV1 - Completing chunk", func(t *testing.T) {
		// Arrange
		submissionID := uuid.New()
		mockService := ingestion.NewMockIngestionService()
		mockService.On("UploadChunk", mock.Anything, mock.Anything).
			Return(&domain.UploadResult{State: domain.UploadStateComplete, SubmissionID: &submissionID, Received: 2, Total: 2}, nil)

		body, contentType := chunkForm(t, chunkFields(uuid.New()), "chunk", []byte("def"))
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusCreated, w.Code)
		var response upload.V1UploadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, domain.UploadStateComplete, response.Status)
		require.NotNil(t, response.SubmissionID)
		assert.Equal(t, submissionID, *response.SubmissionID)
	})

	t.Run("UploadChunkV1 - Missing author", func(t *testing.T) {
		// Arrange
		mockService := ingestion.NewMockIngestionService()
		body, contentType := chunkForm(t, chunkFields(uuid.New()), "chunk", []byte("abc"))
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "UploadChunk", mock.Anything, mock.Anything)
	})

	t.Run("UploadChunkV1 - Bad requests", func(t *testing.T) {
		tests := []struct {
			name     string
			mutate   func(fields map[string]string)
			partName string
		}{
			{"Non numeric index", func(f map[string]string) { f["chunk_index"] = "first" }, "chunk"},
			{"Non numeric total", func(f map[string]string) { f["total_chunks"] = "" }, "chunk"},
			{"Idempotency key is not a uuid", func(f map[string]string) { f["idempotency_key"] = "abc" }, "chunk"},
			{"Missing chunk part", func(f map[string]string) {}, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Arrange
				mockService := ingestion.NewMockIngestionService()
				fields := chunkFields(uuid.New())
				tt.mutate(fields)
				body, contentType := chunkForm(t, fields, tt.partName, []byte("abc"))
				req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk", body)
				req.Header.Set("Content-Type", contentType)
				req.Header.Set(upload.AuthorHeader, "author-1")
				w := httptest.NewRecorder()

				// Act
				newRouter(mockService).ServeHTTP(w, req)

				// Assert
				assert.Equal(t, http2.StatusBadRequest, w.Code)
				mockService.AssertNotCalled(t, "UploadChunk", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("UploadChunkV1 - Service errors", func(t *testing.T) {
		tests := []struct {
			name     string
			err      error
			wantCode int
		}{
			{"Invalid chunk", domain.ErrInvalidChunk, http2.StatusBadRequest},
			{"Invalid file type", domain.ErrInvalidFileType, http2.StatusBadRequest},
			{"Rate limited", domain.ErrRateLimited, http2.StatusTooManyRequests},
			{"Upstream failure", domain.ErrUpstreamStorage, http2.StatusServiceUnavailable},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Arrange
				mockService := ingestion.NewMockIngestionService()
				mockService.On("UploadChunk", mock.Anything, mock.Anything).Return((*domain.UploadResult)(nil), tt.err)
				body, contentType := chunkForm(t, chunkFields(uuid.New()), "chunk", []byte("abc"))
				req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk", body)
				req.Header.Set("Content-Type", contentType)
				req.Header.Set(upload.AuthorHeader, "author-1")
				w := httptest.NewRecorder()

				// Act
				newRouter(mockService).ServeHTTP(w, req)

				// Assert
				assert.Equal(t, tt.wantCode, w.Code)
			})
		}
	})

	t.Run("UploadChunkV1 - Internal errors are not leaked", func(t *testing.T) {
		// Arrange
		mockService := ingestion.NewMockIngestionService()
		mockService.On("UploadChunk", mock.Anything, mock.Anything).
			Return((*domain.UploadResult)(nil), assert.AnError)
		body, contentType := chunkForm(t, chunkFields(uuid.New()), "chunk", []byte("abc"))
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestUploadChunkLegacyV1(t *testing.T) {
	t.Run("UploadChunkLegacyV1 - Nominal case", func(t *testing.T) {
		// Arrange
		key := uuid.New()
		mockService := ingestion.NewMockIngestionService()
		mockService.On("UploadChunk", mock.Anything, mock.MatchedBy(func(u domain.ChunkUpload) bool {
			return u.SessionID == "legacy-1" &&
				u.Index == 2 &&
				u.Total == 3 &&
				u.Encoding == domain.ChunkEncodingBase64JSON &&
				string(u.Payload) == "YWJj" &&
				u.Request.IdempotencyKey == key &&
				u.Request.RecordingType == "story" &&
				u.Request.MimeType == "audio/ogg"
		})).Return(&domain.UploadResult{State: domain.UploadStatePending, Received: 2, Total: 3}, nil)

		jsonBody, err := json.Marshal(upload.V1LegacyChunkRequest{
			SessionID:      "legacy-1",
			Index:          2,
			Total:          3,
			DataBase64:     "YWJj",
			IdempotencyKey: key.String(),
			Title:          "Evening story",
			RecordingType:  "story",
			Filename:       "story.ogg",
			ContentType:    "audio/ogg",
		})
		require.NoError(t, err)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk/legacy", bytes.NewReader(jsonBody))
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("UploadChunkLegacyV1 - Camel case field names", func(t *testing.T) {
		// Arrange
		mockService := ingestion.NewMockIngestionService()
		mockService.On("UploadChunk", mock.Anything, mock.MatchedBy(func(u domain.ChunkUpload) bool {
			return u.SessionID == "legacy-2" && u.Request.RecordingType == "song"
		})).Return(&domain.UploadResult{State: domain.UploadStatePending, Received: 1, Total: 2}, nil)

		raw := `{"sessionId":"legacy-2","index":0,"total":2,"data_base64":"YQ==","idempotencyKey":"` + uuid.NewString() +
			`","title":"t","recordingType":"song","filename":"a.ogg","contentType":"audio/ogg"}`
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk/legacy", bytes.NewReader([]byte(raw)))
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("UploadChunkLegacyV1 - Malformed body", func(t *testing.T) {
		// Arrange
		mockService := ingestion.NewMockIngestionService()
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/chunk/legacy", bytes.NewReader([]byte("{")))
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UploadChunk", mock.Anything, mock.Anything)
	})
}

func TestUploadFileV1(t *testing.T) {
	t.Run("UploadFileV1 - Nominal case", func(t *testing.T) {
		// Arrange
		key := uuid.New()
		submissionID := uuid.New()
		payload := []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
		mockService := ingestion.NewMockIngestionService()
		mockService.On("UploadFile", mock.Anything, mock.MatchedBy(func(r domain.SubmissionRequest) bool {
			return r.IdempotencyKey == key && r.Filename == "blob" && r.MimeType == "audio/wav"
		}), mock.Anything, int64(len(payload))).
			Return(&domain.UploadResult{State: domain.UploadStateComplete, SubmissionID: &submissionID, Received: 1, Total: 1}, nil)

		body, contentType := chunkForm(t, map[string]string{
			"idempotency_key": key.String(),
			"title":           "Whole take",
			"content_type":    "audio/wav",
		}, "file", payload)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/file", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
		var response upload.V1UploadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, submissionID, *response.SubmissionID)
	})

	t.Run("UploadFileV1 - Missing file part", func(t *testing.T) {
		// Arrange
		mockService := ingestion.NewMockIngestionService()
		body, contentType := chunkForm(t, map[string]string{"idempotency_key": uuid.NewString()}, "", nil)
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/file", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
	})

	t.Run("UploadFileV1 - Content mismatch", func(t *testing.T) {
		// Arrange
		mockService := ingestion.NewMockIngestionService()
		mockService.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return((*domain.UploadResult)(nil), domain.ErrContentTypeMismatch)
		body, contentType := chunkForm(t, map[string]string{
			"idempotency_key": uuid.NewString(),
			"title":           "t",
			"content_type":    "audio/wav",
		}, "file", []byte("<html></html>"))
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/upload/file", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
	})
}

func TestAbortSessionV1(t *testing.T) {
	t.Run("AbortSessionV1 - Nominal case", func(t *testing.T) {
		// Arrange
		mockService := ingestion.NewMockIngestionService()
		mockService.On("AbortSession", mock.Anything, "session-1").Return(nil)
		req := httptest.NewRequest(http2.MethodDelete, "/api/v1/upload/session/session-1", nil)
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("AbortSessionV1 - Unknown session", func(t *testing.T) {
		// Arrange
		mockService := ingestion.NewMockIngestionService()
		mockService.On("AbortSession", mock.Anything, "nope").Return(domain.ErrSessionNotFound)
		req := httptest.NewRequest(http2.MethodDelete, "/api/v1/upload/session/nope", nil)
		req.Header.Set(upload.AuthorHeader, "author-1")
		w := httptest.NewRecorder()

		// Act
		newRouter(mockService).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNotFound, w.Code)
	})
}
