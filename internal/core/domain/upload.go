package domain

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// UploadSessionStatus represents the status of an upload session
type UploadSessionStatus string

const (
	UploadSessionStatusOpen      UploadSessionStatus = "open"
	UploadSessionStatusCompleted UploadSessionStatus = "completed"
	UploadSessionStatusAborted   UploadSessionStatus = "aborted"
)

// ChunkEncoding is the wire encoding a session receives its chunks in
type ChunkEncoding string

const (
	ChunkEncodingMultipart  ChunkEncoding = "multipart"
	ChunkEncodingBase64JSON ChunkEncoding = "base64-json"
)

// UploadSession represents an in-progress chunked transfer
type UploadSession struct {
	ID           string
	TotalChunks  int
	Encoding     ChunkEncoding
	Status       UploadSessionStatus
	Request      SubmissionRequest
	SubmissionID *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChunkRecord is the bookkeeping row of one received chunk
type ChunkRecord struct {
	SessionID string
	Index     int
	SizeBytes int64
}

// ChunkKey returns the temporary storage key of a chunk
func ChunkKey(sessionID string, index int) string {
	return fmt.Sprintf("%s%d", ChunkPrefix(sessionID), index)
}

// ChunkPrefix returns the temporary storage prefix of a session
func ChunkPrefix(sessionID string) string {
	return fmt.Sprintf("uploads/%s/", sessionID)
}

// ChunkState is the outcome of a chunk write
type ChunkState string

const (
	ChunkStatePending         ChunkState = "pending"
	ChunkStateComplete        ChunkState = "complete"
	ChunkStateAlreadyComplete ChunkState = "already_complete"
)

// ChunkResult is returned by the chunk store after a write.
// Assembled is only set on ChunkStateComplete and yields the chunks in index order.
type ChunkResult struct {
	State     ChunkState
	Session   *UploadSession
	Received  int
	Total     int
	Assembled io.ReadCloser
	Size      int64
}

// ChunkUpload is a single chunk delivery as received on the wire
type ChunkUpload struct {
	SessionID string
	Index     int
	Total     int
	Encoding  ChunkEncoding
	Payload   []byte
	Request   SubmissionRequest
}

// UploadState is the state reported back to the uploading client
type UploadState string

const (
	UploadStatePending  UploadState = "pending"
	UploadStateComplete UploadState = "complete"
)

// UploadResult is the outcome of an ingestion call
type UploadResult struct {
	State        UploadState
	SubmissionID *uuid.UUID
	Received     int
	Total        int
}
