// Package media resolves the poster and trailer shown on a movie detail page.
package media

import (
	"context"
	"log/slog"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

const TrailerBaseURL = "https://www.youtube.com/embed/"

type MovieLookup interface {
	GetById(ctx context.Context, id string) (*domain.Movie, error)
}

type VideoSource interface {
	VideoKey(ctx context.Context, tmdbID string) (string, error)
}

type Poster struct {
	URL       string
	HasPoster bool
}

type Trailer struct {
	URL   string
	Ready bool
}

type Service struct {
	movies MovieLookup
	videos VideoSource
	logger *slog.Logger
}

func NewService(movies MovieLookup, videos VideoSource, logger *slog.Logger) *Service {
	return &Service{
		movies: movies,
		videos: videos,
		logger: logger,
	}
}

// Poster returns the poster field of a record as stored. Lookup failures are logged
// and reported as a missing poster.
func (s *Service) Poster(ctx context.Context, movieID string) Poster {
	movie, err := s.movies.GetById(ctx, movieID)
	if err != nil {
		s.logger.Error("failed to load movie poster", "movie_id", movieID, "error", err)
		return Poster{}
	}

	return Poster{
		URL:       movie.PosterUrl,
		HasPoster: movie.PosterUrl != "",
	}
}

// Trailer resolves the embed URL of a movie trailer. A stored video key wins over a
// TheMovieDB lookup. The trailer is not ready when no key can be found.
func (s *Service) Trailer(ctx context.Context, movieID string) Trailer {
	movie, err := s.movies.GetById(ctx, movieID)
	if err != nil {
		s.logger.Error("failed to load movie for trailer", "movie_id", movieID, "error", err)
		return Trailer{}
	}

	if movie.VideoKey != nil && *movie.VideoKey != "" {
		return newTrailer(*movie.VideoKey)
	}

	if movie.TMDBMovieID == nil || *movie.TMDBMovieID == "" {
		return Trailer{}
	}

	key, err := s.videos.VideoKey(ctx, *movie.TMDBMovieID)
	if err != nil {
		s.logger.Warn("failed to fetch video key", "movie_id", movieID, "tmdb_movie_id", *movie.TMDBMovieID, "error", err)
		return Trailer{}
	}

	return newTrailer(key)
}

func newTrailer(key string) Trailer {
	return Trailer{
		URL:   TrailerBaseURL + key,
		Ready: true,
	}
}
