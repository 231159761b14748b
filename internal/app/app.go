package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/media"
	"github.com/metinatakli/movie-catalog/internal/moviesync"
	"github.com/metinatakli/movie-catalog/internal/outbox"
	"github.com/metinatakli/movie-catalog/internal/repository"
	"github.com/metinatakli/movie-catalog/internal/tmdb"
	"github.com/metinatakli/movie-catalog/internal/upload"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
	"github.com/metinatakli/movie-catalog/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "movie-catalog-api"

var (
	version = vcs.Version()
)

// TMDB is what the sync and trailer endpoints need from TheMovieDB.
type TMDB interface {
	moviesync.Searcher
	media.VideoSource
}

// SessionFeed is the per-session sink for toasts and navigation requests.
type SessionFeed interface {
	domain.Notifier
	domain.Navigator
	Drain(ctx context.Context) ([]outbox.Event, error)
}

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	movieRepo domain.MovieRepository
	tmdb      TMDB
	relay     *upload.Relay
	feeds     func(sessionID string) SessionFeed
	browsers  *browserRegistry
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	sessionManager *scs.SessionManager,
	movieRepo domain.MovieRepository,
	tmdbClient TMDB,
	relay *upload.Relay,
	events *outbox.Outbox,
) *Application {
	return &Application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      validator,
		sessionManager: sessionManager,
		movieRepo:      movieRepo,
		tmdb:           tmdbClient,
		relay:          relay,
		feeds: func(sessionID string) SessionFeed {
			return events.For(sessionID)
		},
		browsers: newBrowserRegistry(movieRepo, logger),
	}
}

func Run() error {
	_ = godotenv.Load()

	cfg, displayVersion, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, err := initTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	if cfg.DB.Migrate {
		err = repository.Migrate(cfg.DB.DSN, cfg.DB.Migrations)
		if err != nil {
			return err
		}

		logger.Info("database migrations applied")
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	documents, err := newDocumentStore(cfg)
	if err != nil {
		return err
	}

	movieRepo := repository.NewPostgresMovieRepository(db)

	app := NewApp(
		cfg,
		logger,
		db,
		redisClient,
		appvalidator.NewValidator(),
		NewSessionManager(redisClient),
		movieRepo,
		tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.Token, logger),
		upload.NewRelay(documents, movieRepo, logger),
		outbox.New(redisClient, cfg.Catalog.FeedTTL),
	)

	return app.run()
}

func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func newDocumentStore(cfg Config) (*upload.S3Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := upload.NewS3Client(ctx, cfg.S3.Region, cfg.S3.Endpoint)
	if err != nil {
		return nil, err
	}

	store := upload.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix)

	err = store.EnsureBucket(ctx)
	if err != nil {
		return nil, err
	}

	return store, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	go app.browsers.run(sweepCtx, app.config.Catalog.SweepInterval, app.config.Catalog.IdleTimeout)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.browsers.closeAll()

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.ensureSession)

	r.Get("/healthcheck", app.GetHealth)
	r.Get("/genres", app.GetGenres)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", app.GetMovies)
		r.Get("/count", app.GetMovieCount)

		r.Route("/{movieId}", func(r chi.Router) {
			r.Get("/", app.GetMovieById)
			r.Get("/poster", app.GetMoviePoster)
			r.Get("/trailer", app.GetMovieTrailer)
			r.Post("/sync", app.CheckMovieSync)
			r.Put("/sync", app.SelectMovieSync)
		})
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", app.GetCatalog)
		r.Delete("/", app.UnmountCatalog)
		r.Get("/genres", app.GetCatalogGenres)
		r.Put("/genre", app.SelectCatalogGenre)
		r.Put("/page-size", app.SetCatalogPageSize)
		r.Post("/next", app.NextCatalogPage)
		r.Post("/prev", app.PrevCatalogPage)
		r.Post("/movies/{movieId}/open", app.OpenCatalogMovie)
	})

	r.Post("/uploads", app.UploadMovieData)
	r.Get("/events", app.GetEvents)

	return r
}
