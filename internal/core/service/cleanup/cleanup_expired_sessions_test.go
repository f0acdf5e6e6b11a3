package cleanup_test

import (
	"context"
	"errors"
	"log/slog"
	"starmus/internal/adapters/repository"
	"starmus/internal/adapters/storage"
	"starmus/internal/core/domain"
	"starmus/internal/core/service/cleanup"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCleanupService_CleanupExpiredSessions_NoExpiredSessions(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, slog.Default())

	before := time.Now().Add(-24 * time.Hour)
	mockUploadSessionRepo := mockUow.GetUploadSessionRepoMock()
	mockUploadSessionRepo.On("FindAllExpired", ctx, before).Return([]domain.UploadSession{}, nil)

	// Act
	err := service.CleanupExpiredSessions(ctx, before)

	// Assert
	assert.NoError(t, err)
	mockUploadSessionRepo.AssertExpectations(t)
	mockStorage.AssertNotCalled(t, "DeletePrefix", mock.Anything, mock.Anything)
}

func TestCleanupService_CleanupExpiredSessions_OpenSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, slog.Default())

	before := time.Now().Add(-24 * time.Hour)
	session := domain.UploadSession{ID: "stale-session", TotalChunks: 4, Status: domain.UploadSessionStatusOpen}

	mockUploadSessionRepo := mockUow.GetUploadSessionRepoMock()
	mockUploadSessionRepo.On("FindAllExpired", ctx, before).Return([]domain.UploadSession{session}, nil)
	mockStorage.On("DeletePrefix", ctx, "uploads/stale-session/").Return(nil)
	mockUow.On("Execute", ctx, mock.Anything).Return(nil)
	mockUploadSessionRepo.On("UpdateStatus", ctx, session.ID, domain.UploadSessionStatusAborted).Return(nil)
	mockUploadSessionRepo.On("Delete", ctx, session.ID).Return(nil)

	// Act
	err := service.CleanupExpiredSessions(ctx, before)

	// Assert
	assert.NoError(t, err)
	mockUploadSessionRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestCleanupService_CleanupExpiredSessions_CompletedSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, slog.Default())

	before := time.Now().Add(-24 * time.Hour)
	session := domain.UploadSession{ID: "done-session", Status: domain.UploadSessionStatusCompleted}

	mockUploadSessionRepo := mockUow.GetUploadSessionRepoMock()
	mockUploadSessionRepo.On("FindAllExpired", ctx, before).Return([]domain.UploadSession{session}, nil)
	mockStorage.On("DeletePrefix", ctx, domain.ChunkPrefix(session.ID)).Return(nil)
	mockUow.On("Execute", ctx, mock.Anything).Return(nil)
	mockUploadSessionRepo.On("Delete", ctx, session.ID).Return(nil)

	// Act
	err := service.CleanupExpiredSessions(ctx, before)

	// Assert
	assert.NoError(t, err)
	mockUploadSessionRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	mockUploadSessionRepo.AssertCalled(t, "Delete", ctx, session.ID)
}

func TestCleanupService_CleanupExpiredSessions_FindAllExpiredError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, slog.Default())

	before := time.Now()
	expectedError := errors.New("database error")
	mockUow.GetUploadSessionRepoMock().On("FindAllExpired", ctx, before).Return([]domain.UploadSession(nil), expectedError)

	// Act
	err := service.CleanupExpiredSessions(ctx, before)

	// Assert
	assert.ErrorIs(t, err, domain.ErrUpstreamStorage)
	assert.ErrorIs(t, err, expectedError)
}

func TestCleanupService_CleanupExpiredSessions_PartialFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := cleanup.NewCleanupService(mockUow, mockStorage, slog.Default())

	before := time.Now()
	first := domain.UploadSession{ID: "first", Status: domain.UploadSessionStatusAborted}
	second := domain.UploadSession{ID: "second", Status: domain.UploadSessionStatusAborted}
	third := domain.UploadSession{ID: "third", Status: domain.UploadSessionStatusAborted}

	mockUploadSessionRepo := mockUow.GetUploadSessionRepoMock()
	mockUploadSessionRepo.On("FindAllExpired", ctx, before).Return([]domain.UploadSession{first, second, third}, nil)

	// First session: storage unavailable
	mockStorage.On("DeletePrefix", ctx, domain.ChunkPrefix(first.ID)).Return(errors.New("storage error"))

	// Second session: transaction fails
	mockStorage.On("DeletePrefix", ctx, domain.ChunkPrefix(second.ID)).Return(nil)
	mockUploadSessionRepo.On("Delete", ctx, second.ID).Return(errors.New("delete error"))
	mockUow.On("Execute", ctx, mock.Anything).Return(errors.New("transaction error")).Once()

	// Third session succeeds
	mockStorage.On("DeletePrefix", ctx, domain.ChunkPrefix(third.ID)).Return(nil)
	mockUploadSessionRepo.On("Delete", ctx, third.ID).Return(nil)
	mockUow.On("Execute", ctx, mock.Anything).Return(nil).Once()

	// Act
	err := service.CleanupExpiredSessions(ctx, before)

	// Assert
	assert.NoError(t, err)
	mockUploadSessionRepo.AssertNotCalled(t, "Delete", ctx, first.ID)
	mockUploadSessionRepo.AssertCalled(t, "Delete", ctx, third.ID)
	mockStorage.AssertExpectations(t)
}
