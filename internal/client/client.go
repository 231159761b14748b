// Package client reads the movie catalog over the HTTP API. It satisfies
// domain.MovieCatalog so a catalog browser can be mounted away from the store.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) GetPage(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(filters.Page))
	query.Set("pageSize", strconv.Itoa(filters.PageSize))
	if filters.Genre != "" {
		query.Set("genre", filters.Genre)
	}

	var resp api.MovieListResponse

	err := c.get(ctx, "/movies", query, &resp)
	if err != nil {
		return nil, err
	}

	movies := make([]*domain.Movie, len(resp.Movies))
	for i, movie := range resp.Movies {
		movies[i] = toDomainMovie(movie)
	}

	return movies, nil
}

func (c *Client) Count(ctx context.Context, genre string) (int, error) {
	query := url.Values{}
	if genre != "" {
		query.Set("genre", genre)
	}

	var resp api.MovieCountResponse

	err := c.get(ctx, "/movies/count", query, &resp)
	if err != nil {
		return 0, err
	}

	return resp.Count, nil
}

func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var resp api.GenreListResponse

	err := c.get(ctx, "/genres", nil, &resp)
	if err != nil {
		return nil, err
	}

	return resp.Genres, nil
}

// GetById returns domain.ErrRecordNotFound when the API answers 404.
func (c *Client) GetById(ctx context.Context, id string) (*domain.Movie, error) {
	var resp api.Movie

	err := c.get(ctx, "/movies/"+url.PathEscape(id), nil, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return toDomainMovie(resp), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to the api failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}

		var body api.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Message != "" {
			apiErr.Message = body.Message
		}

		return apiErr
	}

	err = json.NewDecoder(resp.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func toDomainMovie(movie api.Movie) *domain.Movie {
	result := &domain.Movie{
		ID:          movie.Id,
		Title:       movie.Title,
		Description: movie.Description,
		PosterUrl:   movie.PosterUrl,
		Rating:      movie.Rating,
		Genre:       movie.Genre,
		TMDBMovieID: movie.TmdbMovieId,
	}

	if movie.TmdbSyncDate != nil {
		syncDate := movie.TmdbSyncDate.Time
		result.TMDBSyncDate = &syncDate
	}

	return result
}
