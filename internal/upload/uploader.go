package upload

import (
	"context"
	"log/slog"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

// Uploader turns the outcome of processing an upload into a toast.
type Uploader struct {
	relay    *Relay
	notifier domain.Notifier
	logger   *slog.Logger
}

func NewUploader(relay *Relay, notifier domain.Notifier, logger *slog.Logger) *Uploader {
	return &Uploader{
		relay:    relay,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleUploadFinished processes the first uploaded document, if any.
func (u *Uploader) HandleUploadFinished(ctx context.Context, documentIDs []string) (Result, error) {
	if len(documentIDs) == 0 {
		return Result{}, nil
	}

	result, err := u.relay.Process(ctx, documentIDs[0])
	if err != nil {
		u.logger.Error("failed to process uploaded document", "document_id", documentIDs[0], "error", err)
		u.notify(ctx, domain.Toast{Title: "Error", Message: err.Error(), Variant: domain.VariantError})

		return Result{}, err
	}

	toast := domain.Toast{Title: "Error", Message: result.Message, Variant: domain.VariantError}
	if result.Success {
		toast.Title = "Success"
		toast.Variant = domain.VariantSuccess
	}

	u.notify(ctx, toast)

	return result, nil
}

func (u *Uploader) notify(ctx context.Context, toast domain.Toast) {
	err := u.notifier.Notify(ctx, toast)
	if err != nil {
		u.logger.Error("failed to send notification", "title", toast.Title, "error", err)
	}
}
