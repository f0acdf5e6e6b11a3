package repository

import (
	"context"
	"encoding/json"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockSubmissionRepository struct {
	mock.Mock
}

func NewMockSubmissionRepository() *MockSubmissionRepository {
	return &MockSubmissionRepository{}
}

func (m *MockSubmissionRepository) CreateIfAbsent(ctx context.Context, submission domain.Submission) (bool, error) {
	args := m.Called(ctx, submission)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) FindByKey(ctx context.Context, key uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) FindByAttachmentID(ctx context.Context, attachmentID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, attachmentID)
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func NewMockAttachmentRepository() *MockAttachmentRepository {
	return &MockAttachmentRepository{}
}

func (m *MockAttachmentRepository) Create(ctx context.Context, attachment domain.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) UpsertArtifact(ctx context.Context, attachmentID uuid.UUID, kind domain.ArtifactKind, storageKey string) error {
	args := m.Called(ctx, attachmentID, kind, storageKey)
	return args.Error(0)
}

type MockMetadataRepository struct {
	mock.Mock
}

func NewMockMetadataRepository() *MockMetadataRepository {
	return &MockMetadataRepository{}
}

func (m *MockMetadataRepository) Set(ctx context.Context, submissionID uuid.UUID, key string, value json.RawMessage) error {
	args := m.Called(ctx, submissionID, key, value)
	return args.Error(0)
}

func (m *MockMetadataRepository) Get(ctx context.Context, submissionID uuid.UUID, key string) (json.RawMessage, error) {
	args := m.Called(ctx, submissionID, key)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockMetadataRepository) GetMany(ctx context.Context, submissionID uuid.UUID, keys []string) (map[string]json.RawMessage, error) {
	args := m.Called(ctx, submissionID, keys)
	return args.Get(0).(map[string]json.RawMessage), args.Error(1)
}

type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository() *MockUploadSessionRepository {
	return &MockUploadSessionRepository{}
}

func (m *MockUploadSessionRepository) CreateIfAbsent(ctx context.Context, session domain.UploadSession) (bool, error) {
	args := m.Called(ctx, session)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id string) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) RecordChunk(ctx context.Context, sessionID string, index int, size int64) (bool, error) {
	args := m.Called(ctx, sessionID, index, size)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) ListChunks(ctx context.Context, sessionID string) ([]domain.ChunkRecord, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.ChunkRecord), args.Error(1)
}

func (m *MockUploadSessionRepository) DeleteChunks(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) ReclaimCompleted(ctx context.Context, id string, staleBefore time.Time) (bool, error) {
	args := m.Called(ctx, id, staleBefore)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) ReopenCompleted(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) SetSubmission(ctx context.Context, id string, submissionID uuid.UUID) error {
	args := m.Called(ctx, id, submissionID)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) UpdateStatus(ctx context.Context, id string, status domain.UploadSessionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindAllExpired(ctx context.Context, before time.Time) ([]domain.UploadSession, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockJobRepository struct {
	mock.Mock
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{}
}

func (m *MockJobRepository) Schedule(ctx context.Context, job domain.ProcessingJob) (bool, error) {
	args := m.Called(ctx, job)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobRepository) Consume(ctx context.Context, attachmentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, attachmentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobRepository) FindDue(ctx context.Context, before, publishedBefore time.Time) ([]domain.ProcessingJob, error) {
	args := m.Called(ctx, before, publishedBefore)
	if fn, ok := args.Get(0).(func(context.Context, time.Time, time.Time) []domain.ProcessingJob); ok {
		return fn(ctx, before, publishedBefore), args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingJob), args.Error(1)
}

func (m *MockJobRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	submissionRepo    *MockSubmissionRepository
	attachmentRepo    *MockAttachmentRepository
	metadataRepo      *MockMetadataRepository
	uploadSessionRepo *MockUploadSessionRepository
	jobRepo           *MockJobRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		submissionRepo:    &MockSubmissionRepository{},
		attachmentRepo:    &MockAttachmentRepository{},
		metadataRepo:      &MockMetadataRepository{},
		uploadSessionRepo: &MockUploadSessionRepository{},
		jobRepo:           &MockJobRepository{},
	}
}

func (m *MockUnitOfWork) SubmissionRepo() port.SubmissionRepository {
	return m.submissionRepo
}

func (m *MockUnitOfWork) AttachmentRepo() port.AttachmentRepository {
	return m.attachmentRepo
}

func (m *MockUnitOfWork) MetadataRepo() port.MetadataRepository {
	return m.metadataRepo
}

func (m *MockUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) JobRepo() port.JobRepository {
	return m.jobRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetSubmissionRepoMock() *MockSubmissionRepository {
	return m.submissionRepo
}

func (m *MockUnitOfWork) GetAttachmentRepoMock() *MockAttachmentRepository {
	return m.attachmentRepo
}

func (m *MockUnitOfWork) GetMetadataRepoMock() *MockMetadataRepository {
	return m.metadataRepo
}

func (m *MockUnitOfWork) GetUploadSessionRepoMock() *MockUploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) GetJobRepoMock() *MockJobRepository {
	return m.jobRepo
}
