package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/upload"
)

const maxUploadBytes = 10 << 20

// UploadMovieData stores the multipart "file" part as a document and imports the
// movies it lists. The outcome is also queued as a toast on the session event feed.
func (app *Application) UploadMovieData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("request must contain a file part named \"file\""))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/csv"
	}

	documentID, err := app.relay.Store(r.Context(), file, contentType)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	uploader := upload.NewUploader(app.relay, app.feeds(app.sessionID(r)), app.contextGetLogger(r))

	result, err := uploader.HandleUploadFinished(r.Context(), []string{documentID.String()})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}

	resp := api.UploadResponse{
		DocumentId: documentID,
		Success:    result.Success,
		Message:    result.Message,
	}

	err = app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
