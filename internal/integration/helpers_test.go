package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"id":        {},
	"at":        {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		switch v := m[k].(type) {
		case map[string]any:
			cleanMap(v)
		case []any:
			for _, item := range v {
				if nested, ok := item.(map[string]any); ok {
					cleanMap(nested)
				}
			}
		}
	}
}

// browserSession talks to the test server with a cookie jar so consecutive requests
// share one catalog session.
type browserSession struct {
	t       testing.TB
	baseURL string
	client  *http.Client
}

func newBrowserSession(t testing.TB, baseURL string) *browserSession {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browserSession{
		t:       t,
		baseURL: baseURL,
		client:  &http.Client{Jar: jar},
	}
}

func (b *browserSession) do(method, path string, body any, dst any) int {
	b.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, b.baseURL+path, reader)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer res.Body.Close()

	if dst != nil {
		require.NoError(b.t, json.NewDecoder(res.Body).Decode(dst))
	}

	return res.StatusCode
}

func truncateMovies(t testing.TB, db *pgxpool.Pool) {
	_, err := db.Exec(context.Background(), "TRUNCATE TABLE movies")
	require.NoError(t, err)
}

type testMovie struct {
	Title       string
	Description string
	PosterUrl   string
	Rating      string
	Genre       *string
}

func defaultTestMovie() testMovie {
	genre := TestMovieGenre

	return testMovie{
		Title:       TestMovieTitle,
		Description: TestMovieDescription,
		PosterUrl:   TestMoviePosterUrl,
		Rating:      TestMovieRating,
		Genre:       &genre,
	}
}

func insertTestMovie(t testing.TB, db *pgxpool.Pool, movie testMovie) string {
	var id string

	err := db.QueryRow(context.Background(), `
		INSERT INTO movies (title, description, poster_url, rating, genre)
		VALUES ($1, $2, $3, $4::numeric, $5)
		RETURNING id`,
		movie.Title, movie.Description, movie.PosterUrl, movie.Rating, movie.Genre,
	).Scan(&id)
	require.NoError(t, err)

	return id
}
