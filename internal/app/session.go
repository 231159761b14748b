package app

import (
	"log/slog"
	"net/http"
)

type sessionKey string

const (
	SessionKeyBrowser = sessionKey("browser")
)

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const loggerContextKey = contextKey("logger")

// sessionID is the token of the session ensureSession guarantees for every request.
func (app *Application) sessionID(r *http.Request) string {
	return app.sessionManager.Token(r.Context())
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}
