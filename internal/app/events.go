package app

import (
	"net/http"

	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/outbox"
)

// GetEvents drains the toasts and navigation requests queued for the session.
func (app *Application) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := app.feeds(app.sessionID(r)).Drain(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.EventListResponse{
		Events: make([]api.Event, len(events)),
	}

	for i, event := range events {
		resp.Events[i] = toApiEvent(event)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiEvent(event outbox.Event) api.Event {
	result := api.Event{
		Kind: string(event.Kind),
		At:   event.At,
	}

	if event.Toast != nil {
		result.Toast = &api.Toast{
			Title:   event.Toast.Title,
			Message: event.Toast.Message,
			Variant: string(event.Toast.Variant),
		}
	}

	if event.Page != nil {
		result.Page = &api.PageRef{
			Type:       string(event.Page.Type),
			RecordId:   event.Page.RecordID,
			ObjectType: event.Page.ObjectType,
			Action:     event.Page.Action,
		}
	}

	return result
}
