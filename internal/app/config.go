package app

import (
	"flag"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	S3               S3Config
	TMDB             TMDBConfig
	Catalog          CatalogConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
	Migrate      bool
	Migrations   string
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string
}

type TMDBConfig struct {
	BaseURL string
	Token   string
}

type CatalogConfig struct {
	// IdleTimeout is how long a session catalog stays mounted without requests.
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	WaitTimeout   time.Duration
	FeedTTL       time.Duration
}

// parseConfig registers the server flags on fs and parses args. Flag defaults come
// from the environment so either can configure the server.
func parseConfig(fs *flag.FlagSet, args []string) (Config, bool, error) {
	var cfg Config

	env := viper.New()
	env.AutomaticEnv()

	env.SetDefault("PORT", 3000)
	env.SetDefault("ENV", "dev")
	env.SetDefault("DB_MAX_OPEN_CONNS", 25)
	env.SetDefault("DB_MAX_IDLE_TIME", 15*time.Minute)
	env.SetDefault("DB_MIGRATIONS", "file://migrations")
	env.SetDefault("REDIS_MAX_OPEN_CONNS", 25)
	env.SetDefault("REDIS_MAX_IDLE_CONNS", 10)
	env.SetDefault("REDIS_MAX_IDLE_TIME", 2*time.Minute)
	env.SetDefault("S3_BUCKET", "movie-uploads")
	env.SetDefault("S3_REGION", "us-east-1")
	env.SetDefault("S3_PREFIX", "documents")
	env.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	env.SetDefault("CATALOG_IDLE_TIMEOUT", 20*time.Minute)
	env.SetDefault("CATALOG_SWEEP_INTERVAL", time.Minute)
	env.SetDefault("CATALOG_WAIT_TIMEOUT", 5*time.Second)
	env.SetDefault("CATALOG_FEED_TTL", 10*time.Minute)

	fs.IntVar(&cfg.Port, "port", env.GetInt("PORT"), "server port")
	fs.StringVar(&cfg.Env, "env", env.GetString("ENV"), "Environment (dev|staging|prod)")
	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", env.GetString("OTEL_COLLECTOR_URL"), "OpenTelemetry collector gRPC endpoint")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", env.GetString("DB_DSN"), "PostgreSQL DSN")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", env.GetInt("DB_MAX_OPEN_CONNS"), "PostgreSQL max open connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", env.GetDuration("DB_MAX_IDLE_TIME"), "PostgreSQL max idle time for connections")
	fs.BoolVar(&cfg.DB.Migrate, "migrate", env.GetBool("DB_MIGRATE"), "Apply pending migrations on startup")
	fs.StringVar(&cfg.DB.Migrations, "db-migrations", env.GetString("DB_MIGRATIONS"), "Migrations source URL")

	fs.StringVar(&cfg.Redis.URL, "redis-url", env.GetString("REDIS_URL"), "Redis URL")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", env.GetInt("REDIS_MAX_OPEN_CONNS"), "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", env.GetInt("REDIS_MAX_IDLE_CONNS"), "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", env.GetDuration("REDIS_MAX_IDLE_TIME"), "Redis max idle time for connections")

	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", env.GetString("S3_BUCKET"), "Bucket for uploaded documents")
	fs.StringVar(&cfg.S3.Region, "s3-region", env.GetString("S3_REGION"), "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", env.GetString("S3_ENDPOINT"), "S3 compatible endpoint, empty for AWS")
	fs.StringVar(&cfg.S3.Prefix, "s3-prefix", env.GetString("S3_PREFIX"), "Key prefix for uploaded documents")

	fs.StringVar(&cfg.TMDB.BaseURL, "tmdb-base-url", env.GetString("TMDB_BASE_URL"), "TheMovieDB API base URL")
	fs.StringVar(&cfg.TMDB.Token, "tmdb-token", env.GetString("TMDB_TOKEN"), "TheMovieDB API read access token")

	fs.DurationVar(&cfg.Catalog.IdleTimeout, "catalog-idle-timeout", env.GetDuration("CATALOG_IDLE_TIMEOUT"), "Unmount session catalogs idle for longer than this")
	fs.DurationVar(&cfg.Catalog.SweepInterval, "catalog-sweep-interval", env.GetDuration("CATALOG_SWEEP_INTERVAL"), "How often idle session catalogs are swept")
	fs.DurationVar(&cfg.Catalog.WaitTimeout, "catalog-wait-timeout", env.GetDuration("CATALOG_WAIT_TIMEOUT"), "Longest a request waits for a catalog reload")
	fs.DurationVar(&cfg.Catalog.FeedTTL, "catalog-feed-ttl", env.GetDuration("CATALOG_FEED_TTL"), "Lifetime of undrained session events")

	displayVersion := fs.Bool("version", false, "Display version and exit")

	err := fs.Parse(args)
	if err != nil {
		return Config{}, false, err
	}

	return cfg, *displayVersion, nil
}
