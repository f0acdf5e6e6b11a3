package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"starmus/internal/core/domain"
)

type audioFiles struct {
	Original string `json:"original"`
	MP3      string `json:"mp3"`
	WAV      string `json:"wav"`
}

// transcode is stage 2: distribution mp3 plus a mastered wav archive.
// Artifacts are written at fixed keys so a re-run overwrites them.
func (p *pipelineService) transcode(ctx context.Context, submission *domain.Submission, attachment *domain.Attachment, source string, workDir string) error {
	stageCtx, cancel := p.stageContext(ctx)
	defer cancel()

	output, err := p.transcoder.Transcode(stageCtx, source, workDir)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProcessingStage, err)
	}

	renditions := []struct {
		kind        domain.ArtifactKind
		path        string
		contentType string
	}{
		{kind: domain.ArtifactMP3, path: output.MP3Path, contentType: "audio/mpeg"},
		{kind: domain.ArtifactWAV, path: output.WAVPath, contentType: "audio/wav"},
	}

	for _, rendition := range renditions {
		key := domain.ArtifactKey(attachment.ID, rendition.kind)
		if err := p.storage.UploadFile(ctx, key, rendition.path, rendition.contentType); err != nil {
			return fmt.Errorf("%w: upload %s: %w", domain.ErrProcessingStage, rendition.kind, err)
		}
		if err := p.uow.AttachmentRepo().UpsertArtifact(ctx, attachment.ID, rendition.kind, key); err != nil {
			return fmt.Errorf("%w: record %s: %w", domain.ErrProcessingStage, rendition.kind, err)
		}
	}

	files, err := json.Marshal(audioFiles{
		Original: attachment.Artifacts[domain.ArtifactOriginal],
		MP3:      domain.ArtifactKey(attachment.ID, domain.ArtifactMP3),
		WAV:      domain.ArtifactKey(attachment.ID, domain.ArtifactWAV),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProcessingStage, err)
	}
	if err := p.uow.MetadataRepo().Set(ctx, submission.ID, domain.MetaAudioFiles, files); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProcessingStage, err)
	}

	p.logger.Info("transcode stored", "submissionID", submission.ID)
	return nil
}
