package chunk_test

import (
	"bytes"
	"context"
	"io"
	"starmus/internal/core/domain"
	"starmus/internal/core/port"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memSessions is an in-memory port.UploadSessionRepository with the same conditional semantics as the sql one.
type memSessions struct {
	mu       sync.Mutex
	sessions map[string]domain.UploadSession
	chunks   map[string]map[int]int64
}

func newMemSessions() *memSessions {
	return &memSessions{
		sessions: make(map[string]domain.UploadSession),
		chunks:   make(map[string]map[int]int64),
	}
}

func (m *memSessions) CreateIfAbsent(_ context.Context, session domain.UploadSession) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; ok {
		return false, nil
	}
	session.UpdatedAt = time.Now()
	m.sessions[session.ID] = session
	return true, nil
}

func (m *memSessions) FindByID(_ context.Context, id string) (*domain.UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (m *memSessions) RecordChunk(_ context.Context, sessionID string, index int, size int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok || session.Status != domain.UploadSessionStatusOpen {
		return false, nil
	}
	if m.chunks[sessionID] == nil {
		m.chunks[sessionID] = make(map[int]int64)
	}
	m.chunks[sessionID][index] = size
	session.UpdatedAt = time.Now()
	m.sessions[sessionID] = session
	return true, nil
}

func (m *memSessions) ListChunks(_ context.Context, sessionID string) ([]domain.ChunkRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var records []domain.ChunkRecord
	// map iteration order is random, callers must not rely on arrival or storage order
	for index, size := range m.chunks[sessionID] {
		records = append(records, domain.ChunkRecord{SessionID: sessionID, Index: index, SizeBytes: size})
	}
	return records, nil
}

func (m *memSessions) DeleteChunks(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chunks, sessionID)
	return nil
}

func (m *memSessions) MarkCompleted(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok || session.Status != domain.UploadSessionStatusOpen {
		return false, nil
	}
	session.Status = domain.UploadSessionStatusCompleted
	session.UpdatedAt = time.Now()
	m.sessions[id] = session
	return true, nil
}

func (m *memSessions) ReclaimCompleted(_ context.Context, id string, staleBefore time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok || session.Status != domain.UploadSessionStatusCompleted || session.SubmissionID != nil || !session.UpdatedAt.Before(staleBefore) {
		return false, nil
	}
	session.UpdatedAt = time.Now()
	m.sessions[id] = session
	return true, nil
}

func (m *memSessions) ReopenCompleted(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok || session.Status != domain.UploadSessionStatusCompleted || session.SubmissionID != nil {
		return false, nil
	}
	session.Status = domain.UploadSessionStatusOpen
	session.UpdatedAt = time.Now()
	m.sessions[id] = session
	return true, nil
}

// backdate makes a session look untouched for age
func (m *memSessions) backdate(id string, age time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session := m.sessions[id]
	session.UpdatedAt = time.Now().Add(-age)
	m.sessions[id] = session
}

// complete flips a session to completed as a concurrent winner would
func (m *memSessions) complete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session := m.sessions[id]
	session.Status = domain.UploadSessionStatusCompleted
	m.sessions[id] = session
}

func (m *memSessions) SetSubmission(_ context.Context, id string, submissionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.SubmissionID = &submissionID
	m.sessions[id] = session
	return nil
}

func (m *memSessions) UpdateStatus(_ context.Context, id string, status domain.UploadSessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Status = status
	m.sessions[id] = session
	return nil
}

func (m *memSessions) FindAllExpired(_ context.Context, before time.Time) ([]domain.UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []domain.UploadSession
	for _, session := range m.sessions {
		if session.UpdatedAt.Before(before) {
			expired = append(expired, session)
		}
	}
	return expired, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.chunks, id)
	return nil
}

// memUnitOfWork only serves upload sessions, the chunk store touches nothing else.
type memUnitOfWork struct {
	sessions *memSessions
}

func (u *memUnitOfWork) Execute(_ context.Context, fn func(uow port.UnitOfWork) error) error {
	return fn(u)
}
func (u *memUnitOfWork) SubmissionRepo() port.SubmissionRepository       { return nil }
func (u *memUnitOfWork) AttachmentRepo() port.AttachmentRepository       { return nil }
func (u *memUnitOfWork) MetadataRepo() port.MetadataRepository           { return nil }
func (u *memUnitOfWork) UploadSessionRepo() port.UploadSessionRepository { return u.sessions }
func (u *memUnitOfWork) JobRepo() port.JobRepository                     { return nil }

// memStorage is an in-memory port.BlobStorage
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	// beforePut runs once, before the next object is stored
	beforePut func(key string)
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) PutObject(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if hook := s.takeHook(); hook != nil {
		hook(key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStorage) GetObject(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) DownloadFile(context.Context, string, string) error { return nil }

func (s *memStorage) UploadFile(context.Context, string, string, string) error { return nil }

func (s *memStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStorage) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *memStorage) takeHook() func(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hook := s.beforePut
	s.beforePut = nil
	return hook
}

func (s *memStorage) count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}
