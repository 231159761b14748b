package mocks

import (
	"context"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetPageFunc          func(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, error)
	CountFunc            func(ctx context.Context, genre string) (int, error)
	GenresFunc           func(ctx context.Context) ([]string, error)
	GetByIdFunc          func(ctx context.Context, id string) (*domain.Movie, error)
	UpdateSyncFieldsFunc func(ctx context.Context, id string, fields domain.SyncFields) error
	ImportFunc           func(ctx context.Context, movies []domain.MovieImport) (int, error)
}

func (m *MockMovieRepo) GetPage(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, error) {
	return m.GetPageFunc(ctx, filters)
}

func (m *MockMovieRepo) Count(ctx context.Context, genre string) (int, error) {
	return m.CountFunc(ctx, genre)
}

func (m *MockMovieRepo) Genres(ctx context.Context) ([]string, error) {
	return m.GenresFunc(ctx)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id string) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) UpdateSyncFields(ctx context.Context, id string, fields domain.SyncFields) error {
	return m.UpdateSyncFieldsFunc(ctx, id, fields)
}

func (m *MockMovieRepo) Import(ctx context.Context, movies []domain.MovieImport) (int, error) {
	return m.ImportFunc(ctx, movies)
}
