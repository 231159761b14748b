package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ImageBaseURL = "https://image.tmdb.org/t/p/"

	// NoPosterURL is what the record store holds when a movie was synced without a poster.
	NoPosterURL = ImageBaseURL + "originalnull"

	PlaceholderPosterURL = "https://via.placeholder.com/300x420?text=No+Image+Available"

	horrorGenre = "Horror"
)

// Movie is a movie record as stored remotely. Genre is nullable on the store side.
type Movie struct {
	ID           string
	Title        string
	Description  string
	PosterUrl    string
	Rating       decimal.Decimal
	Genre        *string
	TMDBMovieID  *string
	TMDBSyncDate *time.Time
	VideoKey     *string
}

// MovieSummary is the list view model derived from a Movie.
type MovieSummary struct {
	ID        string
	PosterUrl string
	Title     string
	Rating    decimal.Decimal
	Genre     string
	IsHorror  bool
}

// NewMovieSummary maps a remote record into its list view model. A missing genre is
// treated as an empty string.
func NewMovieSummary(movie *Movie) MovieSummary {
	if movie == nil {
		return MovieSummary{}
	}

	posterUrl := movie.PosterUrl
	if posterUrl == NoPosterURL {
		posterUrl = PlaceholderPosterURL
	}

	var genre string
	if movie.Genre != nil {
		genre = strings.TrimSpace(*movie.Genre)
	}

	return MovieSummary{
		ID:        movie.ID,
		PosterUrl: posterUrl,
		Title:     movie.Title,
		Rating:    movie.Rating,
		Genre:     genre,
		IsHorror:  strings.Contains(genre, horrorGenre),
	}
}

func NewMovieSummaries(movies []*Movie) []MovieSummary {
	summaries := make([]MovieSummary, len(movies))

	for i, movie := range movies {
		summaries[i] = NewMovieSummary(movie)
	}

	return summaries
}

// SyncFields are the record fields copied from an external movie database match.
type SyncFields struct {
	TMDBMovieID string
	Title       string
	Description string
	PosterUrl   string
	SyncDate    time.Time
}

// MovieImport is one row of an uploaded movie data document.
type MovieImport struct {
	Title       string
	Genre       string
	Rating      decimal.Decimal
	PosterUrl   string
	Description string
}

// MovieCatalog is the read side the catalog browser is built on.
type MovieCatalog interface {
	GetPage(ctx context.Context, filters MovieFilters) ([]*Movie, error)
	Count(ctx context.Context, genre string) (int, error)
	Genres(ctx context.Context) ([]string, error)
}

type MovieRepository interface {
	MovieCatalog
	GetById(ctx context.Context, id string) (*Movie, error)
	UpdateSyncFields(ctx context.Context, id string, fields SyncFields) error
	Import(ctx context.Context, movies []MovieImport) (int, error)
}
