package view

import (
	"context"
	"sync"
	"time"

	"geomap/api/geo"
	"geomap/api/log"
	"geomap/api/metrics"
	"geomap/api/render"

	"github.com/google/uuid"
)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Registry keeps one Store per browser session and drops sessions idle longer than ttl. At most
// limit sessions are held; creating one more evicts the least recently seen.
type Registry struct {
	mu       sync.Mutex
	renderer *render.Renderer
	viewport geo.Viewport
	ttl      time.Duration
	limit    int
	sessions map[string]*session
	now      func() time.Time
}

// NewRegistry with limit <= 0 does not cap the session count.
func NewRegistry(r *render.Renderer, vp geo.Viewport, ttl time.Duration, limit int) *Registry {
	return &Registry{renderer: r, viewport: vp, ttl: ttl, limit: limit, sessions: map[string]*session{}, now: time.Now}
}

// Acquire returns the store for id, creating a new session when id is empty or unknown.
// The returned id is the one the caller must keep.
func (g *Registry) Acquire(id string) (string, *Store) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[id]; ok && id != "" {
		s.lastSeen = g.now()
		return id, s.store
	}
	if g.limit > 0 && len(g.sessions) >= g.limit {
		g.sweepLocked()
		if len(g.sessions) >= g.limit {
			g.evictOldestLocked()
		}
	}
	id = uuid.NewString()
	s := &session{store: NewStore(g.renderer, g.viewport), lastSeen: g.now()}
	g.sessions[id] = s
	metrics.ViewSessions.Set(float64(len(g.sessions)))
	return id, s.store
}

// Get returns an existing session without creating one.
func (g *Registry) Get(id string) (*Store, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = g.now()
	return s.store, true
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (g *Registry) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.sweepLocked()
	metrics.ViewSessions.Set(float64(len(g.sessions)))
	return n
}

func (g *Registry) sweepLocked() int {
	cutoff := g.now().Add(-g.ttl)
	n := 0
	for id, s := range g.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(g.sessions, id)
			n++
		}
	}
	return n
}

func (g *Registry) evictOldestLocked() {
	var oldest string
	var seen time.Time
	for id, s := range g.sessions {
		if oldest == "" || s.lastSeen.Before(seen) {
			oldest, seen = id, s.lastSeen
		}
	}
	if oldest != "" {
		delete(g.sessions, oldest)
		log.WithField("view_id", oldest).Debug("view session evicted")
	}
}

// Run sweeps periodically until ctx is done.
func (g *Registry) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := g.Sweep(); n > 0 {
				log.WithField("dropped", n).Debug("view sessions expired")
			}
		}
	}
}
