package mocks

import (
	"context"
	"sync"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

// MockNotifier records every toast it is asked to show
type MockNotifier struct {
	mu     sync.RWMutex
	toasts []domain.Toast
	Err    error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		toasts: make([]domain.Toast, 0),
	}
}

func (m *MockNotifier) Notify(ctx context.Context, toast domain.Toast) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.toasts = append(m.toasts, toast)

	return m.Err
}

// Toasts returns a copy of all recorded toasts
func (m *MockNotifier) Toasts() []domain.Toast {
	m.mu.RLock()
	defer m.mu.RUnlock()

	toasts := make([]domain.Toast, len(m.toasts))
	copy(toasts, m.toasts)
	return toasts
}

// MockNavigator records every navigation request
type MockNavigator struct {
	mu   sync.RWMutex
	refs []domain.PageRef
	Err  error
}

func NewMockNavigator() *MockNavigator {
	return &MockNavigator{
		refs: make([]domain.PageRef, 0),
	}
}

func (m *MockNavigator) Navigate(ctx context.Context, ref domain.PageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refs = append(m.refs, ref)

	return m.Err
}

func (m *MockNavigator) Requests() []domain.PageRef {
	m.mu.RLock()
	defer m.mu.RUnlock()

	refs := make([]domain.PageRef, len(m.refs))
	copy(refs, m.refs)
	return refs
}
