package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/mocks"
	"github.com/metinatakli/movie-catalog/internal/outbox"
	"github.com/metinatakli/movie-catalog/internal/upload"
	"github.com/metinatakli/movie-catalog/internal/validator"
)

// newTestApplication builds an application on mocks. Options run before the
// components that depend on the movie repository are built.
func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config: Config{
			Env: "test",
			Catalog: CatalogConfig{
				WaitTimeout: 2 * time.Second,
			},
		},
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
		movieRepo:      &mocks.MockMovieRepo{},
		tmdb:           &mocks.MockTMDB{},
		feeds:          newFakeFeeds().get,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.relay == nil {
		app.relay = upload.NewRelay(mocks.NewMockDocumentStore(), app.movieRepo, app.logger)
	}

	app.browsers = newBrowserRegistry(app.movieRepo, app.logger)

	return app
}

// testSession replays the session cookie between requests like a browser would.
type testSession struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newTestSession(t *testing.T, app *Application) *testSession {
	t.Cleanup(app.browsers.closeAll)

	return &testSession{
		t:       t,
		handler: app.Routes(),
		cookies: make(map[string]*http.Cookie),
	}
}

func (s *testSession) do(method, url string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")

	return s.send(r)
}

func (s *testSession) send(r *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range s.cookies {
		r.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)

	for _, cookie := range w.Result().Cookies() {
		s.cookies[cookie.Name] = cookie
	}

	return w
}

func (s *testSession) events() []api.Event {
	s.t.Helper()

	w := s.do(http.MethodGet, "/events", nil)
	if w.Code != http.StatusOK {
		s.t.Fatalf("GET /events status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp api.EventListResponse
	decodeJSON(s.t, w, &resp)

	return resp.Events
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()

	err := json.NewDecoder(w.Body).Decode(dst)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		if validationResp.Message == tt.wantErrMessage {
			return
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

// fakeFeeds hands out one in-memory feed per session.
type fakeFeeds struct {
	mu    sync.Mutex
	feeds map[string]*fakeFeed
}

func newFakeFeeds() *fakeFeeds {
	return &fakeFeeds{feeds: make(map[string]*fakeFeed)}
}

func (f *fakeFeeds) get(sessionID string) SessionFeed {
	f.mu.Lock()
	defer f.mu.Unlock()

	feed, ok := f.feeds[sessionID]
	if !ok {
		feed = &fakeFeed{}
		f.feeds[sessionID] = feed
	}

	return feed
}

type fakeFeed struct {
	mu       sync.Mutex
	events   []outbox.Event
	drainErr error
}

func (f *fakeFeed) Notify(ctx context.Context, toast domain.Toast) error {
	return f.push(outbox.Event{Kind: outbox.EventToast, Toast: &toast})
}

func (f *fakeFeed) Navigate(ctx context.Context, ref domain.PageRef) error {
	return f.push(outbox.Event{Kind: outbox.EventNavigate, Page: &ref})
}

func (f *fakeFeed) Drain(ctx context.Context) ([]outbox.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.drainErr != nil {
		return nil, f.drainErr
	}

	events := f.events
	f.events = nil

	return events, nil
}

func (f *fakeFeed) push(event outbox.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	event.At = time.Now()
	f.events = append(f.events, event)

	return nil
}

func ptr[T any](v T) *T {
	return &v
}
