package integration_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-catalog/internal/app"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/mocks"
	"github.com/metinatakli/movie-catalog/internal/outbox"
	"github.com/metinatakli/movie-catalog/internal/repository"
	"github.com/metinatakli/movie-catalog/internal/tmdb"
	"github.com/metinatakli/movie-catalog/internal/upload"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App       *app.Application
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Documents *mocks.MockDocumentStore
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)
	movieRepo := repository.NewPostgresMovieRepository(db)
	documents := mocks.NewMockDocumentStore()

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		sessionManager,
		movieRepo,
		newFakeTMDB(),
		upload.NewRelay(documents, movieRepo, logger),
		outbox.New(redisClient, cfg.Catalog.FeedTTL),
	)

	return &TestApp{
		App:       application,
		DB:        db,
		Redis:     redisClient,
		Documents: documents,
	}, nil
}

// newFakeTMDB answers every search with a single Alien match.
func newFakeTMDB() *mocks.MockTMDB {
	return &mocks.MockTMDB{
		SearchFunc: func(ctx context.Context, title string) ([]tmdb.Movie, error) {
			if title != TestMovieTitle {
				return []tmdb.Movie{}, nil
			}

			return []tmdb.Movie{
				{
					TMDBID:    TestTmdbId,
					Title:     TestMovieTitle,
					Overview:  TestMovieDescription,
					PosterUrl: TestTmdbPosterUrl,
				},
			}, nil
		},
		VideoKeyFunc: func(ctx context.Context, tmdbID string) (string, error) {
			if tmdbID != TestTmdbId {
				return "", domain.ErrNoVideo
			}

			return TestTmdbVideoKey, nil
		},
	}
}
