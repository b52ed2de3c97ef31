// Package view is the interaction layer: a pure pan/zoom/selection state machine and the store
// that owns one viewer's state together with the paths published for hit testing.
package view

import (
	"fmt"
	"math"

	"geomap/api/geo"
)

const (
	WheelZoomIn   = 1.1
	WheelZoomOut  = 0.9
	ButtonZoomIn  = 1.2
	ButtonZoomOut = 0.8

	// MinZoom keeps repeated zoom-out from reaching zero.
	MinZoom = 1e-3
)

// ViewState drives rendering. Selected == "" means nothing is selected.
type ViewState struct {
	Zoom     float64   `json:"zoom"`
	Offset   geo.Point `json:"offset"`
	Selected string    `json:"selected,omitempty"`
}

func DefaultViewState() ViewState { return ViewState{Zoom: 1} }

// Projection returns the projection for this view on a viewport.
func (v ViewState) Projection(vp geo.Viewport, clamp bool) geo.Projection {
	return geo.Projection{Viewport: vp, Zoom: v.Zoom, Offset: v.Offset, ClampLatitude: clamp}
}

type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "idle"
}

// Gesture tracks the pointer between down and up.
type Gesture struct {
	Mode   Mode
	Last   geo.Point // last recorded pointer position
	Anchor geo.Point // pointer position at pointer-down
	Origin geo.Point // pan offset at pointer-down
	Moved  bool      // a non-zero move happened since pointer-down
}

type State struct {
	View    ViewState
	Gesture Gesture
}

func NewState() State { return State{View: DefaultViewState()} }

type Kind string

const (
	PointerDown  Kind = "pointerdown"
	PointerMove  Kind = "pointermove"
	PointerUp    Kind = "pointerup"
	PointerLeave Kind = "pointerleave"
	Wheel        Kind = "wheel"
	ZoomIn       Kind = "zoomin"
	ZoomOut      Kind = "zoomout"
	Reset        Kind = "reset"
	Select       Kind = "select"
)

// Event is one input, in surface-relative screen coordinates.
type Event struct {
	Kind   Kind    `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Name   string  `json:"name,omitempty"`
}

func (e Event) Pos() geo.Point { return geo.Point{X: e.X, Y: e.Y} }

func (e Event) Validate() error {
	switch e.Kind {
	case PointerDown, PointerMove, PointerUp, PointerLeave, Wheel, ZoomIn, ZoomOut, Reset, Select:
		return nil
	}
	return fmt.Errorf("unknown event kind %q", e.Kind)
}

// Effect tells the store what a transition requires.
type Effect struct {
	ViewChanged bool
	Click       bool
	At          geo.Point
}

// Transition is the pure state machine. Clicks are reported as an effect and resolved by the
// caller against its published paths. vp is the surface the event coordinates refer to.
func Transition(s State, ev Event, vp geo.Viewport) (State, Effect) {
	var eff Effect
	switch ev.Kind {
	case PointerDown:
		p := ev.Pos()
		s.Gesture = Gesture{Mode: Dragging, Last: p, Anchor: p, Origin: s.View.Offset}

	case PointerMove:
		if s.Gesture.Mode != Dragging {
			return s, eff
		}
		p := ev.Pos()
		if p == s.Gesture.Last {
			return s, eff
		}
		s.Gesture.Last = p
		s.Gesture.Moved = true
		// summing the per-move deltas telescopes to p - Anchor
		s.View.Offset = geo.Point{
			X: s.Gesture.Origin.X + (p.X - s.Gesture.Anchor.X),
			Y: s.Gesture.Origin.Y + (p.Y - s.Gesture.Anchor.Y),
		}
		eff.ViewChanged = true

	case PointerUp:
		if s.Gesture.Mode == Dragging && !s.Gesture.Moved {
			eff.Click = true
			eff.At = ev.Pos()
		}
		s.Gesture = Gesture{}

	case PointerLeave:
		s.Gesture = Gesture{}

	case Wheel:
		factor := WheelZoomOut
		if ev.DeltaY < 0 {
			factor = WheelZoomIn
		}
		next := zoomAt(s.View, factor, ev.Pos(), vp)
		if next == s.View {
			return s, eff
		}
		s.View = next
		if s.Gesture.Mode == Dragging {
			// keep an in-flight drag continuous from the new offset
			s.Gesture.Origin = s.View.Offset
			s.Gesture.Anchor = s.Gesture.Last
		}
		eff.ViewChanged = true

	case ZoomIn, ZoomOut:
		factor := ButtonZoomIn
		if ev.Kind == ZoomOut {
			factor = ButtonZoomOut
		}
		z := clampZoom(s.View.Zoom * factor)
		if z == s.View.Zoom {
			return s, eff
		}
		s.View.Zoom = z
		eff.ViewChanged = true

	case Reset:
		s.View = DefaultViewState()
		s.Gesture = Gesture{}
		eff.ViewChanged = true

	case Select:
		if s.View.Selected != ev.Name {
			s.View.Selected = ev.Name
			eff.ViewChanged = true
		}
	}
	return s, eff
}

// zoomAt scales the view keeping the screen point p fixed. The projection's vertical origin is
// the viewport centre line, so Y is scaled about h/2 rather than 0.
func zoomAt(v ViewState, factor float64, p geo.Point, vp geo.Viewport) ViewState {
	newZoom := clampZoom(v.Zoom * factor)
	if newZoom == v.Zoom {
		return v
	}
	k := newZoom / v.Zoom
	cy := p.Y - vp.Height/2
	v.Offset = geo.Point{
		X: p.X - (p.X-v.Offset.X)*k,
		Y: cy - (cy-v.Offset.Y)*k,
	}
	v.Zoom = newZoom
	return v
}

func clampZoom(z float64) float64 {
	if z < MinZoom || math.IsNaN(z) {
		return MinZoom
	}
	return z
}
