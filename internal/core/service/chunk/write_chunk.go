package chunk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"starmus/internal/core/domain"
	"time"
)

// WriteChunk stores one chunk. Writing an index twice overwrites it.
// When the last missing chunk arrives exactly one caller wins the open to completed transition
// and receives the assembled stream; every other caller sees pending or already_complete.
// A completed session left without submission for longer than the completion lease is
// handed to the next writer, so a crashed winner does not strand the upload.
func (c *chunkStore) WriteChunk(ctx context.Context, sessionID string, index int, data []byte) (*domain.ChunkResult, error) {
	repo := c.uow.UploadSessionRepo()

	session, err := repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: unknown session %s", domain.ErrInvalidChunk, sessionID)
		}
		return nil, upstream(err)
	}

	if session.Status == domain.UploadSessionStatusAborted {
		return nil, fmt.Errorf("%w: session %s was aborted", domain.ErrInvalidChunk, sessionID)
	}
	if index < 0 || index >= session.TotalChunks {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", domain.ErrInvalidChunk, index, session.TotalChunks)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty chunk", domain.ErrInvalidChunk)
	}
	if int64(len(data)) > c.cfg.MaxChunkSize {
		return nil, fmt.Errorf("%w: chunk of %d bytes exceeds %d", domain.ErrInvalidChunk, len(data), c.cfg.MaxChunkSize)
	}

	if session.Status == domain.UploadSessionStatusCompleted {
		return c.settled(ctx, session)
	}

	key := domain.ChunkKey(sessionID, index)
	if err := c.storage.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), "application/octet-stream"); err != nil {
		return nil, upstream(err)
	}
	recorded, err := repo.RecordChunk(ctx, sessionID, index, int64(len(data)))
	if err != nil {
		return nil, upstream(err)
	}
	if !recorded {
		return c.late(ctx, sessionID, key)
	}

	chunks, err := repo.ListChunks(ctx, sessionID)
	if err != nil {
		return nil, upstream(err)
	}
	if len(chunks) < session.TotalChunks {
		return &domain.ChunkResult{
			State:    domain.ChunkStatePending,
			Session:  session,
			Received: len(chunks),
			Total:    session.TotalChunks,
		}, nil
	}

	won, err := repo.MarkCompleted(ctx, sessionID)
	if err != nil {
		return nil, upstream(err)
	}
	if !won {
		current, err := repo.FindByID(ctx, sessionID)
		if err != nil {
			return nil, upstream(err)
		}
		return c.settled(ctx, current)
	}

	session.Status = domain.UploadSessionStatusCompleted
	return c.assemble(ctx, session, chunks), nil
}

// assemble hands the winner a reader over the chunks in index order
func (c *chunkStore) assemble(ctx context.Context, session *domain.UploadSession, chunks []domain.ChunkRecord) *domain.ChunkResult {
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})

	keys := make([]string, 0, len(chunks))
	var size int64
	for _, chunk := range chunks {
		keys = append(keys, domain.ChunkKey(session.ID, chunk.Index))
		size += chunk.SizeBytes
	}

	c.logger.Info("upload session assembled",
		"sessionID", session.ID,
		"chunks", len(keys),
		"sizeBytes", size)

	return &domain.ChunkResult{
		State:     domain.ChunkStateComplete,
		Session:   session,
		Received:  len(chunks),
		Total:     session.TotalChunks,
		Assembled: newAssembledReader(ctx, c.storage, keys),
		Size:      size,
	}
}

// late answers a writer whose session stopped being open between the read and the chunk row.
// Its object is removed unless a winner may still be reading it.
func (c *chunkStore) late(ctx context.Context, sessionID, key string) (*domain.ChunkResult, error) {
	current, err := c.uow.UploadSessionRepo().FindByID(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, upstream(err)
	}

	inFlight := current != nil && current.Status == domain.UploadSessionStatusCompleted && current.SubmissionID == nil
	if !inFlight {
		if err := c.storage.DeleteObject(ctx, key); err != nil {
			c.logger.Warn("failed to delete late chunk", "sessionID", sessionID, "key", key, "error", err)
		}
	}

	if current == nil {
		return nil, fmt.Errorf("%w: unknown session %s", domain.ErrInvalidChunk, sessionID)
	}
	if current.Status == domain.UploadSessionStatusAborted {
		return nil, fmt.Errorf("%w: session %s was aborted", domain.ErrInvalidChunk, sessionID)
	}
	return c.settled(ctx, current)
}

// settled describes a session another writer already completed
func (c *chunkStore) settled(ctx context.Context, session *domain.UploadSession) (*domain.ChunkResult, error) {
	if session.SubmissionID != nil {
		return &domain.ChunkResult{
			State:    domain.ChunkStateAlreadyComplete,
			Session:  session,
			Received: session.TotalChunks,
			Total:    session.TotalChunks,
		}, nil
	}

	if session.Status == domain.UploadSessionStatusAborted {
		return nil, fmt.Errorf("%w: session %s was aborted", domain.ErrInvalidChunk, session.ID)
	}

	repo := c.uow.UploadSessionRepo()
	chunks, err := repo.ListChunks(ctx, session.ID)
	if err != nil {
		return nil, upstream(err)
	}

	if session.Status == domain.UploadSessionStatusCompleted && c.cfg.CompletionLease > 0 {
		reclaimed, err := repo.ReclaimCompleted(ctx, session.ID, time.Now().Add(-c.cfg.CompletionLease))
		if err != nil {
			return nil, upstream(err)
		}
		if reclaimed {
			return c.reclaim(ctx, session, chunks)
		}
	}

	return &domain.ChunkResult{
		State:    domain.ChunkStatePending,
		Session:  session,
		Received: len(chunks),
		Total:    session.TotalChunks,
	}, nil
}

// reclaim takes over a completed session whose winner never bound a submission
func (c *chunkStore) reclaim(ctx context.Context, session *domain.UploadSession, chunks []domain.ChunkRecord) (*domain.ChunkResult, error) {
	c.logger.Warn("reclaiming stale completed session",
		"sessionID", session.ID,
		"completedAt", session.UpdatedAt)

	if len(chunks) >= session.TotalChunks {
		return c.assemble(ctx, session, chunks), nil
	}

	// chunks were lost after completion, let the client fill them again
	if _, err := c.uow.UploadSessionRepo().ReopenCompleted(ctx, session.ID); err != nil {
		return nil, upstream(err)
	}
	session.Status = domain.UploadSessionStatusOpen
	return &domain.ChunkResult{
		State:    domain.ChunkStatePending,
		Session:  session,
		Received: len(chunks),
		Total:    session.TotalChunks,
	}, nil
}
