package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository Creates a new sqlUploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{db: db}
}

const uploadSessionColumns = `id, total_chunks, encoding, status, request, submission_id, created_at, updated_at`

// CreateIfAbsent creates an upload session, returns false when the id is already taken
func (s *sqlUploadSessionRepository) CreateIfAbsent(ctx context.Context, session domain.UploadSession) (bool, error) {
	request, err := json.Marshal(session.Request)
	if err != nil {
		return false, fmt.Errorf("error encoding session request: %w", err)
	}

	query := `
		INSERT INTO upload_session (id, total_chunks, encoding, status, request)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, session.ID, session.TotalChunks, session.Encoding, session.Status, string(request))
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *sqlUploadSessionRepository) FindByID(ctx context.Context, id string) (*domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE id = $1`

	row, err := scanUploadSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}

// RecordChunk stores the bookkeeping of a received chunk, a redelivery overwrites the previous one.
// The session row is share-locked so it cannot complete while the chunk is recorded.
func (s *sqlUploadSessionRepository) RecordChunk(ctx context.Context, sessionID string, index int, size int64) (bool, error) {
	query := `
		INSERT INTO upload_chunk (session_id, chunk_index, size_bytes)
		SELECT $1::text, $2::integer, $3::bigint
		WHERE EXISTS (SELECT 1 FROM upload_session WHERE id = $1::text AND status = 'open' FOR SHARE)
		ON CONFLICT (session_id, chunk_index) DO UPDATE SET size_bytes = EXCLUDED.size_bytes, received_at = now()`

	result, err := s.db.ExecContext(ctx, query, sessionID, index, size)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `UPDATE upload_session SET updated_at = now() WHERE id = $1 AND status = 'open'`, sessionID)
	return err == nil, err
}

// ListChunks lists the received chunks of a session ordered by index
func (s *sqlUploadSessionRepository) ListChunks(ctx context.Context, sessionID string) ([]domain.ChunkRecord, error) {
	query := `SELECT session_id, chunk_index, size_bytes FROM upload_chunk WHERE session_id = $1 ORDER BY chunk_index`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []domain.ChunkRecord
	for rows.Next() {
		var chunk domain.ChunkRecord
		if err := rows.Scan(&chunk.SessionID, &chunk.Index, &chunk.SizeBytes); err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (s *sqlUploadSessionRepository) DeleteChunks(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM upload_chunk WHERE session_id = $1`, sessionID)
	return err
}

// MarkCompleted flips an open session to completed. Only one caller can win this transition.
func (s *sqlUploadSessionRepository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	query := `UPDATE upload_session SET status = 'completed', updated_at = now() WHERE id = $1 AND status = 'open'`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// ReclaimCompleted refreshes a completed session still without submission and untouched since staleBefore.
// Only one caller can win it, like MarkCompleted.
func (s *sqlUploadSessionRepository) ReclaimCompleted(ctx context.Context, id string, staleBefore time.Time) (bool, error) {
	query := `
		UPDATE upload_session SET updated_at = now()
		WHERE id = $1 AND status = 'completed' AND submission_id IS NULL AND updated_at < $2`

	result, err := s.db.ExecContext(ctx, query, id, staleBefore)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// ReopenCompleted puts a completed session without submission back to open
func (s *sqlUploadSessionRepository) ReopenCompleted(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE upload_session SET status = 'open', updated_at = now()
		WHERE id = $1 AND status = 'completed' AND submission_id IS NULL`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *sqlUploadSessionRepository) SetSubmission(ctx context.Context, id string, submissionID uuid.UUID) error {
	query := `UPDATE upload_session SET submission_id = $1, updated_at = now() WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, submissionID, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// UpdateStatus updates status
func (s *sqlUploadSessionRepository) UpdateStatus(ctx context.Context, id string, status domain.UploadSessionStatus) error {
	query := `UPDATE upload_session SET status = $1, updated_at = now() WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// FindAllExpired returns the sessions untouched since before, whatever their status
func (s *sqlUploadSessionRepository) FindAllExpired(ctx context.Context, before time.Time) ([]domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE updated_at < $1`

	rows, err := s.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		row, err := scanUploadSession(rows)
		if err != nil {
			return nil, err
		}
		session, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes the session and its chunk rows
func (s *sqlUploadSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM upload_session WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUploadSession(r rowScanner) (*dbUploadSession, error) {
	var row dbUploadSession
	err := r.Scan(
		&row.ID,
		&row.TotalChunks,
		&row.Encoding,
		&row.Status,
		&row.Request,
		&row.SubmissionID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type dbUploadSession struct {
	ID           string        `db:"id"`
	TotalChunks  int           `db:"total_chunks"`
	Encoding     string        `db:"encoding"`
	Status       string        `db:"status"`
	Request      []byte        `db:"request"`
	SubmissionID uuid.NullUUID `db:"submission_id"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// ToDomain converts db obj to domain
func (s *dbUploadSession) ToDomain() (*domain.UploadSession, error) {
	session := &domain.UploadSession{
		ID:          s.ID,
		TotalChunks: s.TotalChunks,
		Encoding:    domain.ChunkEncoding(s.Encoding),
		Status:      domain.UploadSessionStatus(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if err := json.Unmarshal(s.Request, &session.Request); err != nil {
		return nil, fmt.Errorf("error decoding session request: %w", err)
	}
	if s.SubmissionID.Valid {
		id := s.SubmissionID.UUID
		session.SubmissionID = &id
	}
	return session, nil
}
