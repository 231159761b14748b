package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMediaTestApplication() *Application {
	movies := map[string]*domain.Movie{
		"stored":   {ID: "stored", PosterUrl: "https://example.com/p.jpg", VideoKey: ptr("abc123")},
		"synced":   {ID: "synced", TMDBMovieID: ptr("348")},
		"unsynced": {ID: "unsynced"},
	}

	return newTestApplication(func(app *Application) {
		app.movieRepo = &mocks.MockMovieRepo{
			GetByIdFunc: func(ctx context.Context, id string) (*domain.Movie, error) {
				movie, ok := movies[id]
				if !ok {
					return nil, domain.ErrRecordNotFound
				}
				return movie, nil
			},
		}
		app.tmdb = &mocks.MockTMDB{
			VideoKeyFunc: func(ctx context.Context, tmdbID string) (string, error) {
				if tmdbID != "348" {
					return "", domain.ErrNoVideo
				}
				return "LjLamj-b0I8", nil
			},
		}
	})
}

func TestGetMoviePoster(t *testing.T) {
	tests := []struct {
		id   string
		want api.PosterResponse
	}{
		{id: "stored", want: api.PosterResponse{PosterUrl: "https://example.com/p.jpg", HasPoster: true}},
		{id: "unsynced", want: api.PosterResponse{}},
		{id: "missing", want: api.PosterResponse{}},
	}

	session := newTestSession(t, newMediaTestApplication())

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w := session.do(http.MethodGet, "/movies/"+tt.id+"/poster", nil)
			require.Equal(t, http.StatusOK, w.Code)

			var got api.PosterResponse
			decodeJSON(t, w, &got)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetMovieTrailer(t *testing.T) {
	tests := []struct {
		id   string
		want api.TrailerResponse
	}{
		{id: "stored", want: api.TrailerResponse{VideoUrl: "https://www.youtube.com/embed/abc123", IsVideoReady: true}},
		{id: "synced", want: api.TrailerResponse{VideoUrl: "https://www.youtube.com/embed/LjLamj-b0I8", IsVideoReady: true}},
		{id: "unsynced", want: api.TrailerResponse{}},
		{id: "missing", want: api.TrailerResponse{}},
	}

	session := newTestSession(t, newMediaTestApplication())

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w := session.do(http.MethodGet, "/movies/"+tt.id+"/trailer", nil)
			require.Equal(t, http.StatusOK, w.Code)

			var got api.TrailerResponse
			decodeJSON(t, w, &got)

			assert.Equal(t, tt.want, got)
		})
	}
}
