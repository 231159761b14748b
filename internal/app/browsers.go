package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/metinatakli/movie-catalog/internal/catalog"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

type browserEntry struct {
	browser  *catalog.Browser
	mount    sync.Once
	lastSeen time.Time
}

// browserRegistry keeps one mounted catalog browser per session. Browsers are mounted
// on the registry lifetime rather than on the request that created them, so reloads
// outlive the request that issued them.
type browserRegistry struct {
	catalog domain.MovieCatalog
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]*browserEntry
}

func newBrowserRegistry(catalog domain.MovieCatalog, logger *slog.Logger) *browserRegistry {
	ctx, cancel := context.WithCancel(context.Background())

	return &browserRegistry{
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*browserEntry),
	}
}

// get returns the browser of a session, mounting a new one on first use.
func (b *browserRegistry) get(sessionID string, navigator domain.Navigator) *catalog.Browser {
	for {
		entry := b.lookup(sessionID, navigator)
		if b.mount(sessionID, entry) {
			return entry.browser
		}
	}
}

func (b *browserRegistry) lookup(sessionID string, navigator domain.Navigator) *browserEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[sessionID]
	if !ok {
		entry = &browserEntry{browser: catalog.NewBrowser(b.catalog, navigator, b.logger)}
		b.entries[sessionID] = entry
	}
	entry.lastSeen = b.now()

	return entry
}

// mount mounts entry at most once and reports whether it is still the browser of the
// session. An entry removed while it was being mounted is unmounted again.
func (b *browserRegistry) mount(sessionID string, entry *browserEntry) bool {
	entry.mount.Do(func() {
		if !b.holds(sessionID, entry) {
			return
		}
		entry.browser.Mount(b.ctx)
		b.logger.Debug("mounted catalog browser", "session_id", sessionID)
	})

	if b.holds(sessionID, entry) {
		return true
	}

	entry.browser.Unmount()

	return false
}

func (b *browserRegistry) holds(sessionID string, entry *browserEntry) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.entries[sessionID] == entry
}

// remove unmounts the browser of a session and reports whether there was one.
func (b *browserRegistry) remove(sessionID string) bool {
	b.mu.Lock()
	entry, ok := b.entries[sessionID]
	delete(b.entries, sessionID)
	b.mu.Unlock()

	if ok {
		entry.browser.Unmount()
	}

	return ok
}

func (b *browserRegistry) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries)
}

// sweep unmounts every browser not used within idle and returns how many it removed.
func (b *browserRegistry) sweep(idle time.Duration) int {
	cutoff := b.now().Add(-idle)

	b.mu.Lock()
	var stale []*browserEntry
	for id, entry := range b.entries {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, entry)
			delete(b.entries, id)
		}
	}
	b.mu.Unlock()

	for _, entry := range stale {
		entry.browser.Unmount()
	}

	return len(stale)
}

func (b *browserRegistry) run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := b.sweep(idle); n > 0 {
				b.logger.Info("unmounted idle catalog browsers", "count", n)
			}
		}
	}
}

func (b *browserRegistry) closeAll() {
	b.mu.Lock()
	entries := b.entries
	b.entries = make(map[string]*browserEntry)
	b.mu.Unlock()

	for _, entry := range entries {
		entry.browser.Unmount()
	}

	b.cancel()
}
