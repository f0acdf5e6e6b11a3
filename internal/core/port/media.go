package port

import (
	"context"
	"starmus/internal/core/domain"
)

// WaveformExtractor produces waveform peak data from an audio file
type WaveformExtractor interface {
	Extract(ctx context.Context, sourcePath string) ([]byte, error)
}

// Transcoder produces the distributable and archival renditions of an audio file
type Transcoder interface {
	Transcode(ctx context.Context, sourcePath string, outDir string) (*domain.TranscodeOutput, error)
}
