// Package upload stores uploaded movie data documents and imports their rows into
// the catalog.
package upload

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

var requiredColumns = []string{"title", "genre", "rating", "poster_url", "description"}

type DocumentStore interface {
	Save(ctx context.Context, documentID string, body io.Reader, contentType string) error
	Load(ctx context.Context, documentID string) (io.ReadCloser, error)
}

type Importer interface {
	Import(ctx context.Context, movies []domain.MovieImport) (int, error)
}

// Result is the outcome of processing one document.
type Result struct {
	Success bool
	Message string
}

// ParseError reports a malformed document.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Relay struct {
	documents DocumentStore
	movies    Importer
	logger    *slog.Logger
}

func NewRelay(documents DocumentStore, movies Importer, logger *slog.Logger) *Relay {
	return &Relay{
		documents: documents,
		movies:    movies,
		logger:    logger,
	}
}

// Store saves an uploaded file under a fresh document id.
func (r *Relay) Store(ctx context.Context, body io.Reader, contentType string) (uuid.UUID, error) {
	documentID := uuid.New()

	err := r.documents.Save(ctx, documentID.String(), body, contentType)
	if err != nil {
		return uuid.Nil, err
	}

	return documentID, nil
}

// Process loads a stored document and imports its rows. Problems with the document
// itself are reported in the Result. Only unexpected failures are returned as errors.
func (r *Relay) Process(ctx context.Context, documentID string) (Result, error) {
	body, err := r.documents.Load(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return Result{Success: false, Message: "Document not found"}, nil
		}

		return Result{}, err
	}
	defer body.Close()

	movies, err := ParseMovies(body)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return Result{Success: false, Message: "Invalid file: " + parseErr.Error()}, nil
		}

		return Result{}, err
	}

	if len(movies) == 0 {
		return Result{Success: false, Message: "The file contains no movies"}, nil
	}

	n, err := r.movies.Import(ctx, movies)
	if err != nil {
		return Result{}, fmt.Errorf("import movies: %w", err)
	}

	r.logger.Info("imported movie data", "document_id", documentID, "movies", n)

	return Result{
		Success: true,
		Message: fmt.Sprintf("%d movies imported successfully", n),
	}, nil
}

// ParseMovies reads a CSV document with a header row naming at least the columns
// title, genre, rating, poster_url and description in any order.
func ParseMovies(body io.Reader) ([]domain.MovieImport, error) {
	reader := csv.NewReader(body)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.MovieImport{}, nil
		}

		return nil, &ParseError{Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("missing column %q", name)}
		}
	}

	movies := []domain.MovieImport{}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		line, _ := reader.FieldPos(0)

		field := func(name string) string {
			return strings.TrimSpace(record[columns[name]])
		}

		title := field("title")
		if title == "" {
			return nil, &ParseError{Line: line, Err: errors.New("title is required")}
		}

		rating, err := decimal.NewFromString(field("rating"))
		if err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("invalid rating %q", field("rating"))}
		}

		posterUrl := field("poster_url")
		if posterUrl == "" {
			posterUrl = domain.NoPosterURL
		}

		movies = append(movies, domain.MovieImport{
			Title:       title,
			Genre:       field("genre"),
			Rating:      rating,
			PosterUrl:   posterUrl,
			Description: field("description"),
		})
	}

	return movies, nil
}
