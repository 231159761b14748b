package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

// MockDocumentStore keeps documents in memory
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string][]byte
	SaveErr   error
}

func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string][]byte),
	}
}

func (m *MockDocumentStore) Save(ctx context.Context, id string, body io.Reader, contentType string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[id] = data

	return nil
}

func (m *MockDocumentStore) Load(ctx context.Context, id string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockDocumentStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.documents)
}
