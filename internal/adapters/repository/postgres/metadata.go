package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlMetadataRepository struct {
	db SQLQuerier
}

// NewSQLMetadataRepository creates sqlMetadataRepository that implements port.MetadataRepository
func NewSQLMetadataRepository(db SQLQuerier) port.MetadataRepository {
	return &sqlMetadataRepository{db: db}
}

// Set writes a json value under key, replacing any previous value
func (s *sqlMetadataRepository) Set(ctx context.Context, submissionID uuid.UUID, key string, value json.RawMessage) error {
	query := `
		INSERT INTO submission_meta (submission_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (submission_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, submissionID, key, string(value)); err != nil {
		return fmt.Errorf("error writing metadata %s: %w", key, err)
	}
	return nil
}

// Get reads a single key
func (s *sqlMetadataRepository) Get(ctx context.Context, submissionID uuid.UUID, key string) (json.RawMessage, error) {
	query := `SELECT meta_value FROM submission_meta WHERE submission_id = $1 AND meta_key = $2`

	var value []byte
	if err := s.db.QueryRowContext(ctx, query, submissionID, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMetadataNotFound
		}
		return nil, err
	}
	return json.RawMessage(value), nil
}

// GetMany reads several keys at once, missing keys are absent from the result
func (s *sqlMetadataRepository) GetMany(ctx context.Context, submissionID uuid.UUID, keys []string) (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	query := `SELECT meta_key, meta_value FROM submission_meta WHERE submission_id = $1 AND meta_key = ANY($2)`

	rows, err := s.db.QueryContext(ctx, query, submissionID, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("error querying metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("error scanning metadata: %w", err)
		}
		result[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metadata: %w", err)
	}
	return result, nil
}
