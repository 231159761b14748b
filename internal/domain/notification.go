package domain

import "context"

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Toast struct {
	Title   string
	Message string
	Variant Variant
}

// Notifier surfaces user-facing outcomes. Components get one injected rather than
// dispatching globally.
type Notifier interface {
	Notify(ctx context.Context, toast Toast) error
}

type PageType string

const PageTypeRecord PageType = "record"

// PageRef identifies a navigation target.
type PageRef struct {
	Type       PageType
	RecordID   string
	ObjectType string
	Action     string
}

func NewRecordPageRef(recordID string) PageRef {
	return PageRef{
		Type:       PageTypeRecord,
		RecordID:   recordID,
		ObjectType: "Movie",
		Action:     "view",
	}
}

type Navigator interface {
	Navigate(ctx context.Context, ref PageRef) error
}

// GenreChange is emitted by the genre selector. An empty value means all genres.
type GenreChange struct {
	Value string
}

type GenreOption struct {
	Label string
	Value string
}
