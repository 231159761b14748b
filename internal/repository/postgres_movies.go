package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const movieColumns = `id::text, title, description, poster_url, rating, genre, tmdb_movie_id, tmdb_sync_date, video_key`

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetPage(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, error) {
	query := `SELECT ` + movieColumns + `
		FROM movies
		WHERE ($1 = '' OR btrim(genre) = $1)
		ORDER BY title, id
		LIMIT $2 OFFSET $3`

	rows, err := p.db.Query(ctx, query, filters.Genre, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}

		movies = append(movies, movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) Count(ctx context.Context, genre string) (int, error) {
	query := `SELECT count(*) FROM movies WHERE ($1 = '' OR btrim(genre) = $1)`

	var count int

	err := p.db.QueryRow(ctx, query, genre).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (p *PostgresMovieRepository) Genres(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT btrim(genre) AS genre
		FROM movies
		WHERE genre IS NOT NULL AND btrim(genre) <> ''
		ORDER BY genre`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id string) (*domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie, err := scanMovie(p.db.QueryRow(ctx, query, id))
	if err != nil {
		var pgErr *pgconn.PgError

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domain.ErrRecordNotFound
		case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation:
			return nil, domain.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return movie, nil
}

func (p *PostgresMovieRepository) UpdateSyncFields(ctx context.Context, id string, fields domain.SyncFields) error {
	query := `
		UPDATE movies
		SET tmdb_movie_id = $2, title = $3, description = $4, poster_url = $5, tmdb_sync_date = $6
		WHERE id = $1`

	tag, err := p.db.Exec(ctx,
		query,
		id,
		fields.TMDBMovieID,
		fields.Title,
		fields.Description,
		fields.PosterUrl,
		fields.SyncDate)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return domain.ErrEditConflict
			case pgerrcode.InvalidTextRepresentation:
				return domain.ErrRecordNotFound
			}
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// Import bulk-loads uploaded movie rows and reports how many were written.
func (p *PostgresMovieRepository) Import(ctx context.Context, movies []domain.MovieImport) (int, error) {
	var imported int64

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		rows := make([][]any, 0, len(movies))

		for i, movie := range movies {
			var rating pgtype.Numeric
			if err := rating.Scan(movie.Rating.String()); err != nil {
				return fmt.Errorf("row %d: invalid rating: %w", i+1, err)
			}

			var genre *string
			if movie.Genre != "" {
				genre = &movie.Genre
			}

			rows = append(rows, []any{
				movie.Title,
				genre,
				rating,
				movie.PosterUrl,
				movie.Description,
			})
		}

		n, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"movies"},
			[]string{"title", "genre", "rating", "poster_url", "description"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}

		imported = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(imported), nil
}

func scanMovie(row pgx.Row) (*domain.Movie, error) {
	var movie domain.Movie

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.PosterUrl,
		&movie.Rating,
		&movie.Genre,
		&movie.TMDBMovieID,
		&movie.TMDBSyncDate,
		&movie.VideoKey,
	)
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
