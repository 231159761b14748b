package app

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/oapi-codegen/runtime/types"
)

type movieListParams struct {
	Genre    string `validate:"max=255"`
	Page     int    `validate:"min=1"`
	PageSize int    `validate:"page_size"`
}

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	params, err := parseMovieListParams(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters := domain.MovieFilters{
		Genre:    params.Genre,
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	movies, err := app.movieRepo.GetPage(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	totalRecords, err := app.movieRepo.Count(r.Context(), filters.Genre)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies:   toApiMovies(movies),
		Metadata: toApiMetadata(domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func parseMovieListParams(query url.Values) (movieListParams, error) {
	params := movieListParams{
		Genre:    query.Get("genre"),
		Page:     domain.DefaultPage,
		PageSize: domain.DefaultPageSize,
	}

	var err error

	if v := query.Get("page"); v != "" {
		params.Page, err = strconv.Atoi(v)
		if err != nil {
			return movieListParams{}, errors.New("page must be an integer")
		}
	}

	if v := query.Get("pageSize"); v != "" {
		params.PageSize, err = strconv.Atoi(v)
		if err != nil {
			return movieListParams{}, errors.New("pageSize must be an integer")
		}
	}

	return params, nil
}

func (app *Application) GetMovieCount(w http.ResponseWriter, r *http.Request) {
	genre := r.URL.Query().Get("genre")

	count, err := app.movieRepo.Count(r.Context(), genre)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.MovieCountResponse{Genre: genre, Count: count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := app.movieRepo.Genres(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if genres == nil {
		genres = []string{}
	}

	err = app.writeJSON(w, http.StatusOK, api.GenreListResponse{Genres: genres}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieById(w http.ResponseWriter, r *http.Request) {
	movie, err := app.movieRepo.GetById(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiMovie(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiMovies(movies []*domain.Movie) []api.Movie {
	result := make([]api.Movie, len(movies))

	for i, movie := range movies {
		result[i] = toApiMovie(movie)
	}

	return result
}

func toApiMovie(movie *domain.Movie) api.Movie {
	if movie == nil {
		return api.Movie{}
	}

	result := api.Movie{
		Id:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		PosterUrl:   movie.PosterUrl,
		Rating:      movie.Rating,
		Genre:       movie.Genre,
		TmdbMovieId: movie.TMDBMovieID,
	}

	if movie.TMDBSyncDate != nil {
		result.TmdbSyncDate = &types.Date{Time: *movie.TMDBSyncDate}
	}

	return result
}

func toApiMetadata(metadata *domain.Metadata) *api.Metadata {
	if metadata == nil {
		return nil
	}

	return &api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
