package postgres_test

import (
	"context"
	"starmus/internal/adapters/repository/postgres"
	"starmus/internal/core/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSqlUploadSessionRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sessionRepo := postgres.NewSQLUploadSessionRepository(dbConnection)
	newSession := func(id string) domain.UploadSession {
		return domain.UploadSession{
			ID:          id,
			TotalChunks: 3,
			Encoding:    domain.ChunkEncodingMultipart,
			Status:      domain.UploadSessionStatusOpen,
			Request: domain.SubmissionRequest{
				IdempotencyKey: uuid.New(),
				AuthorID:       "author-1",
				Title:          "Harvest chant",
				Filename:       "chant.ogg",
				MimeType:       "audio/ogg",
			},
		}
	}

	recordChunk := func(t *testing.T, sessionID string, index int, size int64) {
		t.Helper()
		recorded, err := sessionRepo.RecordChunk(ctx, sessionID, index, size)
		require.NoError(t, err)
		require.True(t, recorded)
	}

	t.Run("CreateIfAbsent - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession("session-a")

		// Act
		created, err := sessionRepo.CreateIfAbsent(ctx, session)

		// Assert
		require.NoError(t, err)
		require.True(t, created)
		saved, err := sessionRepo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		require.Equal(t, session.TotalChunks, saved.TotalChunks)
		require.Equal(t, session.Encoding, saved.Encoding)
		require.Equal(t, session.Request, saved.Request)
		require.Nil(t, saved.SubmissionID)
	})

	t.Run("CreateIfAbsent - Existing session is left untouched", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession("session-a")
		_, err := sessionRepo.CreateIfAbsent(ctx, session)
		require.NoError(t, err)
		other := newSession("session-a")
		other.TotalChunks = 9

		// Act
		created, err := sessionRepo.CreateIfAbsent(ctx, other)

		// Assert
		require.NoError(t, err)
		require.False(t, created)
		saved, err := sessionRepo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		require.Equal(t, 3, saved.TotalChunks)
	})

	t.Run("FindByID - Not found", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		_, err := sessionRepo.FindByID(ctx, "missing")

		// Assert
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("RecordChunk - Redelivery keeps a single row", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession("session-a")
		_, err := sessionRepo.CreateIfAbsent(ctx, session)
		require.NoError(t, err)

		// Act
		recordChunk(t, session.ID, 2, 10)
		recordChunk(t, session.ID, 0, 10)
		recordChunk(t, session.ID, 2, 12)
		chunks, err := sessionRepo.ListChunks(ctx, session.ID)

		// Assert
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		require.Equal(t, 0, chunks[0].Index)
		require.Equal(t, 2, chunks[1].Index)
		require.Equal(t, int64(12), chunks[1].SizeBytes)
	})

	t.Run("RecordChunk - Session no longer open", func(t *testing.T) {
		// Arrange
		truncate()
		completed := newSession("completed")
		_, err := sessionRepo.CreateIfAbsent(ctx, completed)
		require.NoError(t, err)
		_, err = sessionRepo.MarkCompleted(ctx, completed.ID)
		require.NoError(t, err)

		// Act
		late, errLate := sessionRepo.RecordChunk(ctx, completed.ID, 0, 10)
		missing, errMissing := sessionRepo.RecordChunk(ctx, "missing", 0, 10)

		// Assert
		require.NoError(t, errLate)
		require.NoError(t, errMissing)
		require.False(t, late)
		require.False(t, missing)
		chunks, err := sessionRepo.ListChunks(ctx, completed.ID)
		require.NoError(t, err)
		require.Empty(t, chunks)
	})

	t.Run("ReclaimCompleted - Only stale sessions without submission", func(t *testing.T) {
		// Arrange
		truncate()
		for _, id := range []string{"stale", "fresh", "bound"} {
			_, err := sessionRepo.CreateIfAbsent(ctx, newSession(id))
			require.NoError(t, err)
			_, err = sessionRepo.MarkCompleted(ctx, id)
			require.NoError(t, err)
		}
		require.NoError(t, sessionRepo.SetSubmission(ctx, "bound", uuid.New()))
		_, err := dbConnection.ExecContext(ctx, `UPDATE upload_session SET updated_at = now() - interval '1 hour' WHERE id IN ('stale', 'bound')`)
		require.NoError(t, err)
		staleBefore := time.Now().Add(-10 * time.Minute)

		// Act
		stale, err1 := sessionRepo.ReclaimCompleted(ctx, "stale", staleBefore)
		again, err2 := sessionRepo.ReclaimCompleted(ctx, "stale", staleBefore)
		fresh, err3 := sessionRepo.ReclaimCompleted(ctx, "fresh", staleBefore)
		bound, err4 := sessionRepo.ReclaimCompleted(ctx, "bound", staleBefore)

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.NoError(t, err3)
		require.NoError(t, err4)
		require.True(t, stale)
		require.False(t, again)
		require.False(t, fresh)
		require.False(t, bound)
	})

	t.Run("ReopenCompleted - Session bound to a submission stays completed", func(t *testing.T) {
		// Arrange
		truncate()
		for _, id := range []string{"unbound", "bound"} {
			_, err := sessionRepo.CreateIfAbsent(ctx, newSession(id))
			require.NoError(t, err)
			_, err = sessionRepo.MarkCompleted(ctx, id)
			require.NoError(t, err)
		}
		require.NoError(t, sessionRepo.SetSubmission(ctx, "bound", uuid.New()))

		// Act
		unbound, err1 := sessionRepo.ReopenCompleted(ctx, "unbound")
		bound, err2 := sessionRepo.ReopenCompleted(ctx, "bound")

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.True(t, unbound)
		require.False(t, bound)
		saved, err := sessionRepo.FindByID(ctx, "unbound")
		require.NoError(t, err)
		require.Equal(t, domain.UploadSessionStatusOpen, saved.Status)
	})

	t.Run("MarkCompleted - Only the first caller wins", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession("session-a")
		_, err := sessionRepo.CreateIfAbsent(ctx, session)
		require.NoError(t, err)

		// Act
		first, err1 := sessionRepo.MarkCompleted(ctx, session.ID)
		second, err2 := sessionRepo.MarkCompleted(ctx, session.ID)

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.True(t, first)
		require.False(t, second)
	})

	t.Run("SetSubmission - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession("session-a")
		_, err := sessionRepo.CreateIfAbsent(ctx, session)
		require.NoError(t, err)
		submissionID := uuid.New()

		// Act
		err = sessionRepo.SetSubmission(ctx, session.ID, submissionID)

		// Assert
		require.NoError(t, err)
		saved, err := sessionRepo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		require.NotNil(t, saved.SubmissionID)
		require.Equal(t, submissionID, *saved.SubmissionID)
	})

	t.Run("UpdateStatus - Unknown session", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		err := sessionRepo.UpdateStatus(ctx, "missing", domain.UploadSessionStatusAborted)

		// Assert
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("FindAllExpired - Returns stale sessions only", func(t *testing.T) {
		// Arrange
		truncate()
		_, err := sessionRepo.CreateIfAbsent(ctx, newSession("stale"))
		require.NoError(t, err)
		_, err = dbConnection.ExecContext(ctx, `UPDATE upload_session SET updated_at = now() - interval '2 days' WHERE id = 'stale'`)
		require.NoError(t, err)
		_, err = sessionRepo.CreateIfAbsent(ctx, newSession("fresh"))
		require.NoError(t, err)

		// Act
		expired, err := sessionRepo.FindAllExpired(ctx, time.Now().Add(-24*time.Hour))

		// Assert
		require.NoError(t, err)
		require.Len(t, expired, 1)
		require.Equal(t, "stale", expired[0].ID)
	})

	t.Run("Delete - Removes chunks too", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession("session-a")
		_, err := sessionRepo.CreateIfAbsent(ctx, session)
		require.NoError(t, err)
		recordChunk(t, session.ID, 0, 10)

		// Act
		err = sessionRepo.Delete(ctx, session.ID)

		// Assert
		require.NoError(t, err)
		_, err = sessionRepo.FindByID(ctx, session.ID)
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
		chunks, err := sessionRepo.ListChunks(ctx, session.ID)
		require.NoError(t, err)
		require.Empty(t, chunks)
	})
}
