package view

import (
	"sync"

	"geomap/api/geo"
	"geomap/api/metrics"
	"geomap/api/render"
)

// Snapshot is the observable part of a store.
type Snapshot struct {
	View     ViewState    `json:"view"`
	Mode     string       `json:"mode"`
	Viewport geo.Viewport `json:"viewport"`
	Version  uint64       `json:"version"`
}

// Store owns one viewer's state and the paths published by the last render. Every change to
// the view or the viewport rebuilds the paths before Dispatch returns, so hit tests never see
// stale geometry.
type Store struct {
	mu       sync.Mutex
	renderer *render.Renderer
	viewport geo.Viewport
	state    State
	paths    []geo.RegionPath
	version  uint64
	watchers map[chan Snapshot]struct{}
}

func NewStore(r *render.Renderer, vp geo.Viewport) *Store {
	s := &Store{renderer: r, viewport: vp, state: NewState(), watchers: map[chan Snapshot]struct{}{}}
	s.publish()
	return s
}

// Dispatch applies ev and returns the resulting snapshot. Unknown kinds are ignored.
func (s *Store) Dispatch(ev Event) Snapshot {
	metrics.ViewEventsTotal.WithLabelValues(string(ev.Kind)).Inc()

	s.mu.Lock()
	defer s.mu.Unlock()

	next, eff := Transition(s.state, ev, s.viewport)
	if eff.Click {
		// resolved against the paths currently on screen
		name, _ := geo.HitTest(eff.At.X, eff.At.Y, s.paths)
		if name != next.View.Selected {
			next.View.Selected = name
			eff.ViewChanged = true
		}
	}
	s.state = next
	if eff.ViewChanged {
		s.publish()
	}
	return s.snapshotLocked()
}

// Resize changes the viewport and republishes when it differs.
func (s *Store) Resize(vp geo.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vp == s.viewport {
		return
	}
	s.viewport = vp
	s.publish()
}

// Draw paints the current state onto dst and publishes the paths it produced. The surface
// size becomes the store viewport.
func (s *Store) Draw(dst render.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, h := dst.Size()
	vp := geo.Viewport{Width: float64(w), Height: float64(h)}
	changed := vp != s.viewport
	s.viewport = vp
	paths := s.renderer.Render(dst, s.frameLocked())
	s.paths = paths
	if changed {
		s.version++
		s.notifyLocked()
	}
}

// HitTest resolves a screen point against the published paths.
func (s *Store) HitTest(x, y float64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return geo.HitTest(x, y, s.paths)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Watch returns a channel that receives a snapshot after every republish. Slow readers miss
// intermediate snapshots. Call the returned func to stop.
func (s *Store) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
	}
}

func (s *Store) frameLocked() render.Frame {
	v := s.state.View
	return render.Frame{Viewport: s.viewport, Zoom: v.Zoom, Offset: v.Offset, Selected: v.Selected}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{View: s.state.View, Mode: s.state.Gesture.Mode.String(), Viewport: s.viewport, Version: s.version}
}

func (s *Store) publish() {
	s.paths = s.renderer.Render(nil, s.frameLocked())
	s.version++
	s.notifyLocked()
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
