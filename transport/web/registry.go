package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-client/internal/usecase"
)

// NewSessionFunc builds the game session for a browser seen for the first time.
type NewSessionFunc func() (*usecase.Session, error)

type entry struct {
	session  *usecase.Session
	lastSeen time.Time
}

// registry keeps one game session per browser. Sessions idle for longer than ttl are
// dropped, and at most limit sessions are kept: the least recently seen one makes
// room for a new browser.
type registry struct {
	mu         sync.Mutex
	sessions   map[string]*entry
	newSession NewSessionFunc
	limit      int
	ttl        time.Duration
	now        func() time.Time
}

func newRegistry(newSession NewSessionFunc, limit int, ttl time.Duration) *registry {
	return &registry{
		sessions:   map[string]*entry{},
		newSession: newSession,
		limit:      max(limit, 1),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (that *registry) get(id string) (*usecase.Session, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	e, ok := that.sessions[id]
	if !ok {
		return nil, false
	}

	now := that.now()
	if that.expired(e, now) {
		delete(that.sessions, id)
		return nil, false
	}

	e.lastSeen = now

	return e.session, true
}

// create registers a new session under a fresh id, evicting idle or old sessions first.
func (that *registry) create() (string, *usecase.Session, error) {
	session, err := that.newSession()
	if err != nil {
		return "", nil, fmt.Errorf("failed to create game session: %w", err)
	}

	id := uuid.NewString()

	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	that.sweep(now)

	for len(that.sessions) >= that.limit {
		that.evictOldest()
	}

	that.sessions[id] = &entry{session: session, lastSeen: now}

	return id, session, nil
}

// sweep must be called with mu held.
func (that *registry) sweep(now time.Time) {
	for id, e := range that.sessions {
		if that.expired(e, now) {
			delete(that.sessions, id)
		}
	}
}

// evictOldest must be called with mu held.
func (that *registry) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)

	for id, e := range that.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}

	delete(that.sessions, oldestID)
}

func (that *registry) expired(e *entry, now time.Time) bool {
	return that.ttl > 0 && now.Sub(e.lastSeen) > that.ttl
}

func (that *registry) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}
