package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type sqlJobRepository struct {
	db SQLQuerier
}

// NewSQLJobRepository creates sqlJobRepository that implements port.JobRepository
func NewSQLJobRepository(db SQLQuerier) port.JobRepository {
	return &sqlJobRepository{db: db}
}

// Schedule inserts a pending job unless one is already pending for the attachment
func (s *sqlJobRepository) Schedule(ctx context.Context, job domain.ProcessingJob) (bool, error) {
	query := `
		INSERT INTO processing_job (id, attachment_id, fire_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (attachment_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, job.ID, job.AttachmentID, job.FireAt)
	if err != nil {
		return false, fmt.Errorf("error scheduling job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking rows affected: %w", err)
	}
	return rows == 1, nil
}

// Consume removes the pending job of an attachment, returns false if none was pending
func (s *sqlJobRepository) Consume(ctx context.Context, attachmentID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM processing_job WHERE attachment_id = $1`, attachmentID)
	if err != nil {
		return false, fmt.Errorf("error consuming job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking rows affected: %w", err)
	}
	return rows > 0, nil
}

// FindDue lists pending jobs whose fire time is before the given instant,
// skipping the ones published since publishedBefore
func (s *sqlJobRepository) FindDue(ctx context.Context, before, publishedBefore time.Time) ([]domain.ProcessingJob, error) {
	query := `
		SELECT id, attachment_id, fire_at, published_at, created_at
		FROM processing_job
		WHERE fire_at < $1 AND (published_at IS NULL OR published_at < $2)
		ORDER BY fire_at`

	rows, err := s.db.QueryContext(ctx, query, before, publishedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.ProcessingJob
	for rows.Next() {
		var job domain.ProcessingJob
		var publishedAt sql.NullTime
		if err := rows.Scan(&job.ID, &job.AttachmentID, &job.FireAt, &publishedAt, &job.CreatedAt); err != nil {
			return nil, err
		}
		if publishedAt.Valid {
			job.PublishedAt = &publishedAt.Time
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkPublished records when the job message was last handed to the transport.
// A job already consumed is not an error.
func (s *sqlJobRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE processing_job SET published_at = $1 WHERE id = $2`, at, id); err != nil {
		return fmt.Errorf("error marking job published: %w", err)
	}
	return nil
}
