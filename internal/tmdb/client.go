// Package tmdb is a small client for the parts of TheMovieDB API the catalog uses:
// searching movies by title and looking up their trailer.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"

	posterSize = "original"
	youTube    = "YouTube"
	trailer    = "Trailer"
)

type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Movie is a search result.
type Movie struct {
	TMDBID    string
	Title     string
	Overview  string
	PosterUrl string
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries      uint64
	initialInterval time.Duration
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetries sets how many times a transient failure is retried and the first delay.
func WithRetries(maxRetries uint64, initialInterval time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialInterval = initialInterval
	}
}

func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger:          logger,
		maxRetries:      3,
		initialInterval: 500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type searchResponse struct {
	Results []struct {
		ID         int     `json:"id"`
		Title      string  `json:"title"`
		Overview   string  `json:"overview"`
		PosterPath *string `json:"poster_path"`
	} `json:"results"`
}

type videosResponse struct {
	Results []struct {
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

type errorResponse struct {
	StatusMessage string `json:"status_message"`
}

// Search looks movies up by title. A result without a poster gets domain.NoPosterURL.
func (c *Client) Search(ctx context.Context, title string) ([]Movie, error) {
	query := url.Values{}
	query.Set("query", title)

	var resp searchResponse

	err := c.get(ctx, "/search/movie", query, &resp)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	movies := make([]Movie, len(resp.Results))

	for i, result := range resp.Results {
		posterPath := "null"
		if result.PosterPath != nil {
			posterPath = *result.PosterPath
		}

		movies[i] = Movie{
			TMDBID:    strconv.Itoa(result.ID),
			Title:     result.Title,
			Overview:  result.Overview,
			PosterUrl: domain.ImageBaseURL + posterSize + posterPath,
		}
	}

	return movies, nil
}

// VideoKey returns the YouTube key of the first trailer of a movie, or
// domain.ErrNoVideo when it has none.
func (c *Client) VideoKey(ctx context.Context, tmdbID string) (string, error) {
	var resp videosResponse

	err := c.get(ctx, "/movie/"+url.PathEscape(tmdbID)+"/videos", nil, &resp)
	if err != nil {
		return "", fmt.Errorf("fetch videos: %w", err)
	}

	for _, video := range resp.Results {
		if video.Site == youTube && video.Type == trailer && video.Key != "" {
			return video.Key, nil
		}
	}

	return "", domain.ErrNoVideo
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	notify := func(err error, next time.Duration) {
		c.logger.Warn("tmdb request failed, retrying", "path", path, "error", err, "retry_in", next)
	}

	return backoff.RetryNotify(func() error {
		err := c.do(ctx, path, query, dst)
		if err == nil {
			return nil
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) && !isRetryable(httpErr.StatusCode) {
			return backoff.Permanent(err)
		}

		return err
	}, policy, notify)
}

func (c *Client) do(ctx context.Context, path string, query url.Values, dst any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("making tmdb request", "method", req.Method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to the api failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
		}

		var body errorResponse
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.StatusMessage != "" {
			httpErr.Message = body.StatusMessage
		}

		return httpErr
	}

	err = json.NewDecoder(resp.Body).Decode(dst)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}

	return nil
}

func isRetryable(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusRequestTimeout || statusCode == http.StatusTooManyRequests
}
