package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/catalog"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const allRecordsLabel = "All"

// browser returns the catalog browser mounted for the session of r.
func (app *Application) browser(r *http.Request) *catalog.Browser {
	sessionID := app.sessionID(r)
	return app.browsers.get(sessionID, app.feeds(sessionID))
}

func (app *Application) GetCatalog(w http.ResponseWriter, r *http.Request) {
	app.writeCatalogView(w, r, app.browser(r))
}

func (app *Application) UnmountCatalog(w http.ResponseWriter, r *http.Request) {
	if !app.browsers.remove(app.sessionID(r)) {
		app.notFoundResponse(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetCatalogGenres(w http.ResponseWriter, r *http.Request) {
	browser := app.browser(r)

	resp := api.GenreOptionsResponse{
		Options:  toApiGenreOptions(browser.Genres.Options()),
		Selected: browser.Genres.Selected(),
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) SelectCatalogGenre(w http.ResponseWriter, r *http.Request) {
	var input api.SelectGenreRequest

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

	browser := app.browser(r)
	browser.Genres.Select(input.Value)

	app.writeCatalogView(w, r, browser)
}

func (app *Application) SetCatalogPageSize(w http.ResponseWriter, r *http.Request) {
	var input api.SetPageSizeRequest

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

	browser := app.browser(r)

	err = browser.Movies.SetPageSize(*input.PageSize)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPageSize) {
			app.badRequestResponse(w, r, err)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeCatalogView(w, r, browser)
}

func (app *Application) NextCatalogPage(w http.ResponseWriter, r *http.Request) {
	browser := app.browser(r)
	browser.Movies.NextPage()

	app.writeCatalogView(w, r, browser)
}

func (app *Application) PrevCatalogPage(w http.ResponseWriter, r *http.Request) {
	browser := app.browser(r)
	browser.Movies.PrevPage()

	app.writeCatalogView(w, r, browser)
}

// OpenCatalogMovie queues a navigation request on the session event feed.
func (app *Application) OpenCatalogMovie(w http.ResponseWriter, r *http.Request) {
	browser := app.browser(r)
	browser.Movies.Open(r.Context(), chi.URLParam(r, "movieId"))

	w.WriteHeader(http.StatusAccepted)
}

// writeCatalogView answers with the current view of browser. With ?wait=true it first
// waits, up to the configured timeout, for the latest reload to be applied.
func (app *Application) writeCatalogView(w http.ResponseWriter, r *http.Request, browser *catalog.Browser) {
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		ctx, cancel := context.WithTimeout(r.Context(), app.config.Catalog.WaitTimeout)
		defer cancel()

		err := browser.Movies.Wait(ctx)
		if err != nil {
			app.contextGetLogger(r).Warn("catalog reload still pending", "error", err)
		}
	}

	err := app.writeJSON(w, http.StatusOK, toApiCatalogView(browser.Movies.View()), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiCatalogView(view catalog.View) api.CatalogView {
	movies := make([]api.MovieSummary, len(view.Movies))
	for i, movie := range view.Movies {
		movies[i] = api.MovieSummary{
			Id:        movie.ID,
			PosterUrl: movie.PosterUrl,
			Title:     movie.Title,
			Rating:    movie.Rating,
			Genre:     movie.Genre,
			IsHorror:  movie.IsHorror,
		}
	}

	return api.CatalogView{
		Pagination: api.PaginationState{
			PageSize:      view.State.PageSize,
			CurrentPage:   view.State.CurrentPage,
			TotalCount:    view.State.TotalCount,
			TotalPages:    view.TotalPages,
			SelectedGenre: view.State.SelectedGenre,
		},
		Movies:          movies,
		Loading:         view.Loading,
		HasMovies:       view.HasMovies,
		PrevDisabled:    view.PrevDisabled,
		NextDisabled:    view.NextDisabled,
		PageSizeOptions: pageSizeOptions(),
	}
}

func pageSizeOptions() []api.PageSizeOption {
	options := make([]api.PageSizeOption, len(domain.PageSizeOptions))

	for i, size := range domain.PageSizeOptions {
		label := strconv.Itoa(size)
		if size == domain.AllRecords {
			label = allRecordsLabel
		}

		options[i] = api.PageSizeOption{Label: label, Value: size}
	}

	return options
}

func toApiGenreOptions(options []domain.GenreOption) []api.GenreOption {
	result := make([]api.GenreOption, len(options))

	for i, option := range options {
		result[i] = api.GenreOption{Label: option.Label, Value: option.Value}
	}

	return result
}
