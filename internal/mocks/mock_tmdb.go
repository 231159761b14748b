package mocks

import (
	"context"

	"github.com/metinatakli/movie-catalog/internal/tmdb"
)

type MockTMDB struct {
	SearchFunc   func(ctx context.Context, title string) ([]tmdb.Movie, error)
	VideoKeyFunc func(ctx context.Context, tmdbID string) (string, error)
}

func (m *MockTMDB) Search(ctx context.Context, title string) ([]tmdb.Movie, error) {
	return m.SearchFunc(ctx, title)
}

func (m *MockTMDB) VideoKey(ctx context.Context, tmdbID string) (string, error) {
	return m.VideoKeyFunc(ctx, tmdbID)
}
