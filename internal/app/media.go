package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/media"
)

func (app *Application) GetMoviePoster(w http.ResponseWriter, r *http.Request) {
	poster := media.NewService(app.movieRepo, app.tmdb, app.contextGetLogger(r)).
		Poster(r.Context(), chi.URLParam(r, "movieId"))

	resp := api.PosterResponse{
		PosterUrl: poster.URL,
		HasPoster: poster.HasPoster,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieTrailer(w http.ResponseWriter, r *http.Request) {
	trailer := media.NewService(app.movieRepo, app.tmdb, app.contextGetLogger(r)).
		Trailer(r.Context(), chi.URLParam(r, "movieId"))

	resp := api.TrailerResponse{
		VideoUrl:     trailer.URL,
		IsVideoReady: trailer.Ready,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
