package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// SubmissionStatus represents the processing status of a submission
type SubmissionStatus string

const (
	SubmissionStatusUploaded         SubmissionStatus = "uploaded"
	SubmissionStatusProcessing       SubmissionStatus = "processing"
	SubmissionStatusComplete         SubmissionStatus = "complete"
	SubmissionStatusFailedProcessing SubmissionStatus = "failed_processing"
)

// IsTerminal reports whether no further automatic transition happens from this status
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusComplete || s == SubmissionStatusFailedProcessing
}

// RecordKind is the content type of a persisted record
type RecordKind string

// RecordKindRecording is the only kind this service creates
const RecordKindRecording RecordKind = "audio-recording"

// Submission represents a durable recording record
type Submission struct {
	ID             uuid.UUID
	IdempotencyKey uuid.UUID
	AuthorID       string
	Title          string
	RecordingType  string
	Language       string
	Dialect        string
	Kind           RecordKind
	Status         SubmissionStatus
	AttachmentID   uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SubmissionRequest carries the client supplied attributes of a recording
type SubmissionRequest struct {
	IdempotencyKey uuid.UUID `json:"idempotency_key"`
	AuthorID       string    `json:"author_id"`
	Title          string    `json:"title"`
	RecordingType  string    `json:"recording_type"`
	Language       string    `json:"language"`
	Dialect        string    `json:"dialect"`
	Filename       string    `json:"filename"`
	MimeType       string    `json:"mime_type"`
	SizeBytes      int64     `json:"size_bytes,omitempty"`
}

const (
	maxTitleLength     = 255
	maxAuthorLength    = 128
	maxAttributeLength = 64
)

// Validate checks the attributes every recording must carry
func (r SubmissionRequest) Validate() error {
	if r.IdempotencyKey == uuid.Nil {
		return fmt.Errorf("%w: idempotency key is required", ErrInvalidSubmission)
	}
	if strings.TrimSpace(r.AuthorID) == "" || utf8.RuneCountInString(r.AuthorID) > maxAuthorLength {
		return fmt.Errorf("%w: author is required", ErrInvalidSubmission)
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSubmission)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidSubmission, maxTitleLength)
	}
	for name, value := range map[string]string{
		"recording_type": r.RecordingType,
		"language":       r.Language,
		"dialect":        r.Dialect,
	} {
		if utf8.RuneCountInString(value) > maxAttributeLength {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidSubmission, name, maxAttributeLength)
		}
	}
	return nil
}

// StatusView is the polling view of a submission
type StatusView struct {
	ID     uuid.UUID
	Status SubmissionStatus
	Kind   RecordKind
}

// SubmissionData holds large derived blobs served out of band
type SubmissionData struct {
	ID            uuid.UUID
	Waveform      []byte
	Transcription []byte
}

// Metadata keys written on submissions
const (
	MetaWaveform        = "waveform_json"
	MetaTranscription   = "transcription_json"
	MetaProcessingError = "processing_error"
	MetaAudioFiles      = "audio_files"
)
