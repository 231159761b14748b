package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestNewMovieSummary(t *testing.T) {
	tests := []struct {
		name  string
		movie *Movie
		want  MovieSummary
	}{
		{
			name: "sentinel poster is replaced with placeholder",
			movie: &Movie{
				ID:        "a1",
				Title:     "Nope",
				PosterUrl: NoPosterURL,
				Rating:    decimal.RequireFromString("6.8"),
				Genre:     ptr("Sci-Fi"),
			},
			want: MovieSummary{
				ID:        "a1",
				Title:     "Nope",
				PosterUrl: PlaceholderPosterURL,
				Rating:    decimal.RequireFromString("6.8"),
				Genre:     "Sci-Fi",
			},
		},
		{
			name: "other poster urls pass through",
			movie: &Movie{
				ID:        "a2",
				PosterUrl: ImageBaseURL + "original/abc.jpg",
				Genre:     ptr("Drama"),
			},
			want: MovieSummary{
				ID:        "a2",
				PosterUrl: ImageBaseURL + "original/abc.jpg",
				Genre:     "Drama",
			},
		},
		{
			name: "genre is trimmed and horror flagged",
			movie: &Movie{
				ID:    "a3",
				Genre: ptr(" Horror/Thriller "),
			},
			want: MovieSummary{
				ID:       "a3",
				Genre:    "Horror/Thriller",
				IsHorror: true,
			},
		},
		{
			name: "horror match is case sensitive",
			movie: &Movie{
				ID:    "a4",
				Genre: ptr("horror"),
			},
			want: MovieSummary{
				ID:    "a4",
				Genre: "horror",
			},
		},
		{
			name:  "missing genre maps to empty string",
			movie: &Movie{ID: "a5"},
			want:  MovieSummary{ID: "a5"},
		},
		{
			name:  "nil movie",
			movie: nil,
			want:  MovieSummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMovieSummary(tt.movie)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NewMovieSummary() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
