package catalog

import (
	"context"
	"log/slog"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

// Browser is a mounted catalog view: a genre selector wired into a movie list.
type Browser struct {
	Genres *GenreSelector
	Movies *Controller
}

func NewBrowser(catalog domain.MovieCatalog, navigator domain.Navigator, logger *slog.Logger) *Browser {
	genres := NewGenreSelector(catalog, logger)
	movies := NewController(catalog, navigator, logger)

	genres.OnChange(movies.HandleGenreChange)

	return &Browser{
		Genres: genres,
		Movies: movies,
	}
}

// Mount loads the genre options and issues the first movie reload.
func (b *Browser) Mount(ctx context.Context) {
	b.Movies.Mount(ctx)
	b.Genres.Load(ctx)
}

func (b *Browser) Unmount() {
	b.Movies.Unmount()
}
