// Package api holds the JSON shapes of the HTTP API shared by the server and its
// clients.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

// Movie is a stored movie record as served by the read API.
type Movie struct {
	Id           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	PosterUrl    string              `json:"posterUrl"`
	Rating       decimal.Decimal     `json:"rating"`
	Genre        *string             `json:"genre"`
	TmdbMovieId  *string             `json:"tmdbMovieId,omitempty"`
	TmdbSyncDate *openapi_types.Date `json:"tmdbSyncDate,omitempty"`
}

type MovieListResponse struct {
	Movies   []Movie   `json:"movies"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

type MovieCountResponse struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type GenreListResponse struct {
	Genres []string `json:"genres"`
}

type MovieSummary struct {
	Id        string          `json:"id"`
	PosterUrl string          `json:"posterUrl"`
	Title     string          `json:"title"`
	Rating    decimal.Decimal `json:"rating"`
	Genre     string          `json:"genre"`
	IsHorror  bool            `json:"isHorror"`
}

type PaginationState struct {
	PageSize      int    `json:"pageSize"`
	CurrentPage   int    `json:"currentPage"`
	TotalCount    int    `json:"totalCount"`
	TotalPages    int    `json:"totalPages"`
	SelectedGenre string `json:"selectedGenre"`
}

// CatalogView is the state of the catalog mounted for a session.
type CatalogView struct {
	Pagination      PaginationState  `json:"pagination"`
	Movies          []MovieSummary   `json:"movies"`
	Loading         bool             `json:"loading"`
	HasMovies       bool             `json:"hasMovies"`
	PrevDisabled    bool             `json:"prevDisabled"`
	NextDisabled    bool             `json:"nextDisabled"`
	PageSizeOptions []PageSizeOption `json:"pageSizeOptions"`
}

type PageSizeOption struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type GenreOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type GenreOptionsResponse struct {
	Options  []GenreOption `json:"options"`
	Selected string        `json:"selected"`
}

type SelectGenreRequest struct {
	Value string `json:"value" validate:"max=255"`
}

type SetPageSizeRequest struct {
	PageSize *int `json:"pageSize" validate:"required,page_size"`
}

type TmdbMovie struct {
	TmdbId    string `json:"tmdbId" validate:"required,numeric"`
	Title     string `json:"title" validate:"required,max=255"`
	Overview  string `json:"overview"`
	PosterUrl string `json:"posterUrl" validate:"omitempty,url"`
}

type SyncCheckResponse struct {
	AlreadySynced bool        `json:"alreadySynced"`
	Title         string      `json:"title"`
	Movies        []TmdbMovie `json:"movies"`
}

type PosterResponse struct {
	PosterUrl string `json:"posterUrl"`
	HasPoster bool   `json:"hasPoster"`
}

type TrailerResponse struct {
	VideoUrl     string `json:"videoUrl"`
	IsVideoReady bool   `json:"isVideoReady"`
}

type UploadResponse struct {
	DocumentId openapi_types.UUID `json:"documentId"`
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
}

type Toast struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Variant string `json:"variant"`
}

type PageRef struct {
	Type       string `json:"type"`
	RecordId   string `json:"recordId"`
	ObjectType string `json:"objectApiName"`
	Action     string `json:"actionName"`
}

type Event struct {
	Kind  string    `json:"kind"`
	Toast *Toast    `json:"toast,omitempty"`
	Page  *PageRef  `json:"page,omitempty"`
	At    time.Time `json:"at"`
}

type EventListResponse struct {
	Events []Event `json:"events"`
}
