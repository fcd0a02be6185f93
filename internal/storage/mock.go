package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/story-forge/pkg/document"
)

// MockStorage is an in-memory Storage for tests. Function fields can
// be set to override individual operations.
type MockStorage struct {
	mu   sync.Mutex
	docs map[string]string

	ExportDir string

	SaveDocumentFunc func(ctx context.Context, sessionID uuid.UUID, kind document.Kind, text string) error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{docs: make(map[string]string)}
}

func (m *MockStorage) Ping(ctx context.Context) error { return nil }

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) SaveDocument(ctx context.Context, sessionID uuid.UUID, kind document.Kind, text string) error {
	if m.SaveDocumentFunc != nil {
		return m.SaveDocumentFunc(ctx, sessionID, kind, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[documentKey(sessionID, kind)] = text
	return nil
}

func (m *MockStorage) LoadDocument(ctx context.Context, sessionID uuid.UUID, kind document.Kind) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[documentKey(sessionID, kind)], nil
}

func (m *MockStorage) ListDocuments(ctx context.Context, sessionID uuid.UUID) (map[document.Kind]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make(map[document.Kind]string)
	for _, kind := range document.Kinds() {
		if text := m.docs[documentKey(sessionID, kind)]; text != "" {
			docs[kind] = text
		}
	}
	return docs, nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, kind := range document.Kinds() {
		delete(m.docs, documentKey(sessionID, kind))
	}
	return nil
}

func (m *MockStorage) ExportSession(ctx context.Context, sessionID uuid.UUID) (string, error) {
	docs, err := m.ListDocuments(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("session %s has no documents to export", sessionID)
	}

	dir := m.ExportDir
	if dir == "" {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, sessionID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	for kind, text := range docs {
		if err := os.WriteFile(filepath.Join(dir, kind.FileName()), []byte(text), 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}
