package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/moviesync"
	"github.com/metinatakli/movie-catalog/internal/tmdb"
)

func (app *Application) syncService(r *http.Request) *moviesync.Service {
	return moviesync.NewService(app.movieRepo, app.tmdb, app.feeds(app.sessionID(r)), app.contextGetLogger(r))
}

// CheckMovieSync searches TheMovieDB for candidates of a record. The outcome is also
// queued as a toast on the session event feed.
func (app *Application) CheckMovieSync(w http.ResponseWriter, r *http.Request) {
	result, err := app.syncService(r).Check(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrEmptyTitle):
			app.unprocessableEntityResponse(w, r, "Movie title is empty")
		default:
			app.badGatewayResponse(w, r, err)
		}
		return
	}

	resp := api.SyncCheckResponse{
		AlreadySynced: result.AlreadySynced,
		Title:         result.Title,
		Movies:        make([]api.TmdbMovie, len(result.Results)),
	}

	for i, movie := range result.Results {
		resp.Movies[i] = api.TmdbMovie{
			TmdbId:    movie.TMDBID,
			Title:     movie.Title,
			Overview:  movie.Overview,
			PosterUrl: movie.PosterUrl,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SelectMovieSync copies the chosen TheMovieDB match into the record and answers with
// the updated record.
func (app *Application) SelectMovieSync(w http.ResponseWriter, r *http.Request) {
	var input api.TmdbMovie

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movieID := chi.URLParam(r, "movieId")

	err = app.syncService(r).Select(r.Context(), movieID, tmdb.Movie{
		TMDBID:    input.TmdbId,
		Title:     input.Title,
		Overview:  input.Overview,
		PosterUrl: input.PosterUrl,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrAlreadySynced):
			app.alreadySyncedResponse(w, r)
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiMovie(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
