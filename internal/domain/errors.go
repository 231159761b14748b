package domain

import "errors"

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrEditConflict     = errors.New("edit conflict")
	ErrInvalidPageSize  = errors.New("page size must not be negative")
	ErrDocumentNotFound = errors.New("document not found")
	ErrAlreadySynced    = errors.New("movie is already synced")
	ErrEmptyTitle       = errors.New("movie title is empty")
	ErrNoVideo          = errors.New("no video available for movie")
)
