package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ArtifactKind identifies a stored representation of an attachment
type ArtifactKind string

const (
	ArtifactOriginal ArtifactKind = "original"
	ArtifactWaveform ArtifactKind = "waveform"
	ArtifactMP3      ArtifactKind = "mp3"
	ArtifactWAV      ArtifactKind = "wav"
)

// Attachment represents the binary payload of a submission and its derived artifacts
type Attachment struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	Filename     string
	MimeType     string
	SizeBytes    int64
	Artifacts    map[ArtifactKind]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Has reports whether an artifact of the given kind was written
func (a *Attachment) Has(kind ArtifactKind) bool {
	_, ok := a.Artifacts[kind]
	return ok
}

// ArtifactKey returns the storage key for an artifact kind
func ArtifactKey(attachmentID uuid.UUID, kind ArtifactKind) string {
	switch kind {
	case ArtifactWaveform:
		return fmt.Sprintf("attachments/%s/waveform.json", attachmentID)
	case ArtifactMP3:
		return fmt.Sprintf("attachments/%s/distribution.mp3", attachmentID)
	case ArtifactWAV:
		return fmt.Sprintf("attachments/%s/archive.wav", attachmentID)
	default:
		return fmt.Sprintf("attachments/%s/original", attachmentID)
	}
}

// TranscodeOutput lists files produced by the transcode stage
type TranscodeOutput struct {
	MP3Path string
	WAVPath string
}
