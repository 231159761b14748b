package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

const AllGenresLabel = "All Genres"

type GenreSource interface {
	Genres(ctx context.Context) ([]string, error)
}

// GenreSelector offers the genres present in the store, prefixed with an all-genres
// option, and notifies its listeners when one is selected.
type GenreSelector struct {
	source GenreSource
	logger *slog.Logger

	mu        sync.RWMutex
	options   []domain.GenreOption
	selected  string
	listeners []func(domain.GenreChange)
}

func NewGenreSelector(source GenreSource, logger *slog.Logger) *GenreSelector {
	return &GenreSelector{
		source:  source,
		logger:  logger,
		options: []domain.GenreOption{},
	}
}

// Load fetches the genre options. On failure the option list is left empty.
func (s *GenreSelector) Load(ctx context.Context) {
	genres, err := s.source.Genres(ctx)
	if err != nil {
		s.logger.Error("failed to fetch genres", "error", err)
		return
	}

	options := make([]domain.GenreOption, 0, len(genres)+1)
	options = append(options, domain.GenreOption{Label: AllGenresLabel, Value: ""})

	for _, genre := range genres {
		options = append(options, domain.GenreOption{Label: genre, Value: genre})
	}

	s.mu.Lock()
	s.options = options
	s.mu.Unlock()
}

func (s *GenreSelector) Options() []domain.GenreOption {
	s.mu.RLock()
	defer s.mu.RUnlock()

	options := make([]domain.GenreOption, len(s.options))
	copy(options, s.options)

	return options
}

func (s *GenreSelector) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selected
}

func (s *GenreSelector) OnChange(listener func(domain.GenreChange)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, listener)
}

// Select records the selection and notifies every listener, outside the lock.
func (s *GenreSelector) Select(value string) {
	s.mu.Lock()
	s.selected = value
	listeners := make([]func(domain.GenreChange), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	change := domain.GenreChange{Value: value}
	for _, listener := range listeners {
		listener(change)
	}
}
