package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type sqlSubmissionRepository struct {
	db SQLQuerier
}

// NewSQLSubmissionRepository creates sqlSubmissionRepository that implements port.SubmissionRepository
func NewSQLSubmissionRepository(db SQLQuerier) port.SubmissionRepository {
	return &sqlSubmissionRepository{db: db}
}

const submissionColumns = `id, idempotency_key, author_id, title, recording_type, language, dialect,
       kind, status, attachment_id, created_at, updated_at`

// CreateIfAbsent inserts the submission unless its idempotency key already exists.
// The unique constraint decides the winner when several processes race on the same key.
func (s *sqlSubmissionRepository) CreateIfAbsent(ctx context.Context, submission domain.Submission) (bool, error) {
	query := `
		INSERT INTO submission (id, idempotency_key, author_id, title, recording_type, language, dialect, kind, status, attachment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (idempotency_key) DO NOTHING`

	result, err := s.db.ExecContext(
		ctx,
		query,
		submission.ID,
		submission.IdempotencyKey,
		submission.AuthorID,
		submission.Title,
		submission.RecordingType,
		submission.Language,
		submission.Dialect,
		submission.Kind,
		submission.Status,
		submission.AttachmentID,
	)
	if err != nil {
		return false, fmt.Errorf("error inserting submission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking rows affected: %w", err)
	}
	return rows == 1, nil
}

// FindByKey finds a submission by idempotency key
func (s *sqlSubmissionRepository) FindByKey(ctx context.Context, key uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submission WHERE idempotency_key = $1`
	return s.findOne(ctx, query, key)
}

// FindByID finds a submission by id
func (s *sqlSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submission WHERE id = $1`
	return s.findOne(ctx, query, id)
}

// FindByAttachmentID finds the submission owning an attachment
func (s *sqlSubmissionRepository) FindByAttachmentID(ctx context.Context, attachmentID uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submission WHERE attachment_id = $1`
	return s.findOne(ctx, query, attachmentID)
}

// UpdateStatus sets the processing status
func (s *sqlSubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus) error {
	query := `UPDATE submission SET status = $1, updated_at = now() WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("error updating submission status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (s *sqlSubmissionRepository) findOne(ctx context.Context, query string, arg any) (*domain.Submission, error) {
	var row dbSubmission
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&row.ID,
		&row.IdempotencyKey,
		&row.AuthorID,
		&row.Title,
		&row.RecordingType,
		&row.Language,
		&row.Dialect,
		&row.Kind,
		&row.Status,
		&row.AttachmentID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

type dbSubmission struct {
	ID             uuid.UUID `db:"id"`
	IdempotencyKey uuid.UUID `db:"idempotency_key"`
	AuthorID       string    `db:"author_id"`
	Title          string    `db:"title"`
	RecordingType  string    `db:"recording_type"`
	Language       string    `db:"language"`
	Dialect        string    `db:"dialect"`
	Kind           string    `db:"kind"`
	Status         string    `db:"status"`
	AttachmentID   uuid.UUID `db:"attachment_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ToDomain converts db obj to domain
func (s *dbSubmission) ToDomain() *domain.Submission {
	return &domain.Submission{
		ID:             s.ID,
		IdempotencyKey: s.IdempotencyKey,
		AuthorID:       s.AuthorID,
		Title:          s.Title,
		RecordingType:  s.RecordingType,
		Language:       s.Language,
		Dialect:        s.Dialect,
		Kind:           domain.RecordKind(s.Kind),
		Status:         domain.SubmissionStatus(s.Status),
		AttachmentID:   s.AttachmentID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
