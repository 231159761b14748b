// Package moviesync copies movie data from TheMovieDB into catalog records.
package moviesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/tmdb"
)

type Searcher interface {
	Search(ctx context.Context, title string) ([]tmdb.Movie, error)
}

type Service struct {
	movies   domain.MovieRepository
	searcher Searcher
	notifier domain.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(movies domain.MovieRepository, searcher Searcher, notifier domain.Notifier, logger *slog.Logger) *Service {
	return &Service{
		movies:   movies,
		searcher: searcher,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

type CheckResult struct {
	AlreadySynced bool
	Title         string
	Results       []tmdb.Movie
}

// Check looks at a record and, unless it was synced before, searches TheMovieDB by
// its title. Every outcome is surfaced as a toast.
func (s *Service) Check(ctx context.Context, movieID string) (CheckResult, error) {
	movie, err := s.movies.GetById(ctx, movieID)
	if err != nil {
		return CheckResult{}, err
	}

	if movie.TMDBMovieID != nil && *movie.TMDBMovieID != "" {
		s.notify(ctx, "Info", "Data already synced from TheMovieDB", domain.VariantInfo)
		return CheckResult{AlreadySynced: true, Title: movie.Title, Results: []tmdb.Movie{}}, nil
	}

	if movie.Title == "" {
		s.notify(ctx, "Error", "Movie title is empty", domain.VariantError)
		return CheckResult{Results: []tmdb.Movie{}}, domain.ErrEmptyTitle
	}

	results, err := s.searcher.Search(ctx, movie.Title)
	if err != nil {
		s.notify(ctx, "Error", "Error searching movies", domain.VariantError)
		return CheckResult{}, fmt.Errorf("search %q: %w", movie.Title, err)
	}

	if len(results) == 0 {
		s.notify(ctx, "No Results", fmt.Sprintf(`No movies found for the title "%s"`, movie.Title), domain.VariantWarning)
	}

	return CheckResult{Title: movie.Title, Results: results}, nil
}

// Select copies the chosen search result into the record and stamps today's date as
// the sync date.
func (s *Service) Select(ctx context.Context, movieID string, selected tmdb.Movie) error {
	movie, err := s.movies.GetById(ctx, movieID)
	if err != nil {
		return err
	}

	if movie.TMDBMovieID != nil && *movie.TMDBMovieID != "" {
		return domain.ErrAlreadySynced
	}

	now := s.now().UTC()

	err = s.movies.UpdateSyncFields(ctx, movieID, domain.SyncFields{
		TMDBMovieID: selected.TMDBID,
		Title:       selected.Title,
		Description: selected.Overview,
		PosterUrl:   selected.PosterUrl,
		SyncDate:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		s.notify(ctx, "Error", "Error updating record", domain.VariantError)

		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrEditConflict) {
			return err
		}

		return fmt.Errorf("update sync fields: %w", err)
	}

	s.notify(ctx, "Success", "Movie data copied successfully", domain.VariantSuccess)

	return nil
}

func (s *Service) notify(ctx context.Context, title, message string, variant domain.Variant) {
	err := s.notifier.Notify(ctx, domain.Toast{Title: title, Message: message, Variant: variant})
	if err != nil {
		s.logger.Error("failed to send notification", "title", title, "error", err)
	}
}
