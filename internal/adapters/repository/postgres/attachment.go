package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlAttachmentRepository struct {
	db SQLQuerier
}

// NewSQLAttachmentRepository creates sqlAttachmentRepository that implements port.AttachmentRepository
func NewSQLAttachmentRepository(db SQLQuerier) port.AttachmentRepository {
	return &sqlAttachmentRepository{db: db}
}

// Create creates new attachment entry
func (s *sqlAttachmentRepository) Create(ctx context.Context, attachment domain.Attachment) error {
	query := `INSERT INTO attachment (id, submission_id, filename, mime_type, size_bytes)
              VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, attachment.ID, attachment.SubmissionID, attachment.Filename, attachment.MimeType, attachment.SizeBytes)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("attachment %s : %w", attachment.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting attachment: %w", err)
	}
	return nil
}

// FindByID finds an attachment and its artifacts
func (s *sqlAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	query := `SELECT id, submission_id, filename, mime_type, size_bytes, created_at, updated_at
              FROM attachment
              WHERE id = $1`

	var attachment domain.Attachment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&attachment.ID,
		&attachment.SubmissionID,
		&attachment.Filename,
		&attachment.MimeType,
		&attachment.SizeBytes,
		&attachment.CreatedAt,
		&attachment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, storage_key FROM attachment_artifact WHERE attachment_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("error querying artifacts: %w", err)
	}
	defer rows.Close()

	attachment.Artifacts = make(map[domain.ArtifactKind]string)
	for rows.Next() {
		var kind, key string
		if err := rows.Scan(&kind, &key); err != nil {
			return nil, fmt.Errorf("error scanning artifact: %w", err)
		}
		attachment.Artifacts[domain.ArtifactKind(kind)] = key
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artifacts: %w", err)
	}

	return &attachment, nil
}

// UpsertArtifact records the storage location of an artifact, overwriting a previous run
func (s *sqlAttachmentRepository) UpsertArtifact(ctx context.Context, attachmentID uuid.UUID, kind domain.ArtifactKind, storageKey string) error {
	query := `
		INSERT INTO attachment_artifact (attachment_id, kind, storage_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (attachment_id, kind) DO UPDATE SET storage_key = EXCLUDED.storage_key, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, attachmentID, kind, storageKey); err != nil {
		return fmt.Errorf("error upserting artifact: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE attachment SET updated_at = now() WHERE id = $1`, attachmentID); err != nil {
		return fmt.Errorf("error touching attachment: %w", err)
	}
	return nil
}
