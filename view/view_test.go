package view

import (
	"math"
	"testing"
	"time"

	"geomap/api/geo"
	"geomap/api/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(name string, lon, lat, half float64) geo.Region {
	return geo.Region{Name: name, Kind: geo.KindPolygon, Polygons: []geo.Polygon{{geo.Ring{
		{Lon: lon - half, Lat: lat - half},
		{Lon: lon + half, Lat: lat - half},
		{Lon: lon + half, Lat: lat + half},
		{Lon: lon - half, Lat: lat + half},
	}}}}
}

var vp = geo.Viewport{Width: 800, Height: 450}

func newTestStore() *Store {
	r := render.New([]geo.Region{square("France", 0, 0, 10), square("Peru", 60, 0, 10)})
	return NewStore(r, vp)
}

func TestWheelKeepsCursorPointFixed(t *testing.T) {
	s := State{View: ViewState{Zoom: 1.7, Offset: geo.Point{X: -40, Y: 13}}}
	cursor := geo.Point{X: 312, Y: 201}
	before := s.View.Projection(vp, true).Unproject(cursor)

	for _, dy := range []float64{-120, 120, -1} {
		next, eff := Transition(s, Event{Kind: Wheel, X: cursor.X, Y: cursor.Y, DeltaY: dy}, vp)
		assert.True(t, eff.ViewChanged)
		after := next.View.Projection(vp, true).Point(before)
		assert.InDelta(t, cursor.X, after.X, 1e-9)
		assert.InDelta(t, cursor.Y, after.Y, 1e-9)
	}
}

func TestWheelFromDefaultViewKeepsPointUnderPointer(t *testing.T) {
	s := NewState()
	cursor := geo.Point{X: 100, Y: 100}
	before := s.View.Projection(vp, true).Unproject(cursor)

	next, _ := Transition(s, Event{Kind: Wheel, X: cursor.X, Y: cursor.Y, DeltaY: -1}, vp)
	after := next.View.Projection(vp, true).Point(before)
	assert.InDelta(t, 100, after.X, 1e-9)
	assert.InDelta(t, 100, after.Y, 1e-9)
	// y is scaled about the centre line: (100-225) - (100-225-0)*1.1
	assert.InDelta(t, 12.5, next.View.Offset.Y, 1e-9)
}

func TestZoomOutStopsAtMinimum(t *testing.T) {
	s := NewState()
	for i := 0; i < 2000; i++ {
		s, _ = Transition(s, Event{Kind: Wheel, X: 300, Y: 90, DeltaY: 1}, vp)
		s, _ = Transition(s, Event{Kind: ZoomOut}, vp)
	}
	assert.Equal(t, MinZoom, s.View.Zoom)
	assert.False(t, math.IsNaN(s.View.Offset.X))
	assert.False(t, math.IsNaN(s.View.Offset.Y))

	next, eff := Transition(s, Event{Kind: Wheel, X: 300, Y: 90, DeltaY: 1}, vp)
	assert.False(t, eff.ViewChanged)
	assert.Equal(t, s, next)

	next, eff = Transition(s, Event{Kind: ZoomIn}, vp)
	assert.True(t, eff.ViewChanged)
	assert.InDelta(t, MinZoom*ButtonZoomIn, next.View.Zoom, 1e-15)
}

func TestWheelFactors(t *testing.T) {
	s := NewState()
	in, _ := Transition(s, Event{Kind: Wheel, DeltaY: -3}, vp)
	out, _ := Transition(s, Event{Kind: Wheel, DeltaY: 3}, vp)
	zero, _ := Transition(s, Event{Kind: Wheel, DeltaY: 0}, vp)
	assert.InDelta(t, 1.1, in.View.Zoom, 1e-12)
	assert.InDelta(t, 0.9, out.View.Zoom, 1e-12)
	assert.InDelta(t, 0.9, zero.View.Zoom, 1e-12)
}

func TestDragThereAndBackRestoresOffset(t *testing.T) {
	s := State{View: ViewState{Zoom: 2, Offset: geo.Point{X: 0.1, Y: -7.3}}}
	start := s.View.Offset

	s, _ = Transition(s, Event{Kind: PointerDown, X: 100.5, Y: 50.25}, vp)
	s, _ = Transition(s, Event{Kind: PointerMove, X: 137.2, Y: 20.9}, vp)
	assert.InDelta(t, start.X+36.7, s.View.Offset.X, 1e-9)
	s, _ = Transition(s, Event{Kind: PointerMove, X: 100.5, Y: 50.25}, vp)
	assert.Equal(t, start, s.View.Offset)
	assert.Equal(t, Dragging, s.Gesture.Mode)

	s, eff := Transition(s, Event{Kind: PointerUp, X: 100.5, Y: 50.25}, vp)
	assert.False(t, eff.Click, "a drag is not a click")
	assert.Equal(t, Idle, s.Gesture.Mode)
}

func TestMoveWithoutDragDoesNothing(t *testing.T) {
	s := NewState()
	next, eff := Transition(s, Event{Kind: PointerMove, X: 10, Y: 10}, vp)
	assert.Equal(t, s, next)
	assert.False(t, eff.ViewChanged)
}

func TestLeaveEndsDrag(t *testing.T) {
	s, _ := Transition(NewState(), Event{Kind: PointerDown, X: 1, Y: 1}, vp)
	s, _ = Transition(s, Event{Kind: PointerLeave}, vp)
	assert.Equal(t, Idle, s.Gesture.Mode)
	_, eff := Transition(s, Event{Kind: PointerUp, X: 1, Y: 1}, vp)
	assert.False(t, eff.Click)
}

func TestButtonsResetAndSelect(t *testing.T) {
	s, _ := Transition(NewState(), Event{Kind: ZoomIn}, vp)
	assert.InDelta(t, 1.2, s.View.Zoom, 1e-12)
	s, _ = Transition(s, Event{Kind: ZoomOut}, vp)
	assert.InDelta(t, 0.96, s.View.Zoom, 1e-12)
	assert.Equal(t, geo.Point{}, s.View.Offset)

	s, eff := Transition(s, Event{Kind: Select, Name: "Peru"}, vp)
	assert.True(t, eff.ViewChanged)
	assert.Equal(t, "Peru", s.View.Selected)
	_, eff = Transition(s, Event{Kind: Select, Name: "Peru"}, vp)
	assert.False(t, eff.ViewChanged)

	s, _ = Transition(s, Event{Kind: Reset}, vp)
	assert.Equal(t, DefaultViewState(), s.View)
}

func TestEventValidate(t *testing.T) {
	assert.NoError(t, Event{Kind: Wheel}.Validate())
	assert.Error(t, Event{Kind: "scroll"}.Validate())
}

func TestStoreClickSelectsAndClears(t *testing.T) {
	s := newTestStore()
	v0 := s.Snapshot().Version

	s.Dispatch(Event{Kind: PointerDown, X: 400, Y: 225})
	snap := s.Dispatch(Event{Kind: PointerUp, X: 400, Y: 225})
	assert.Equal(t, "France", snap.View.Selected)
	assert.Greater(t, snap.Version, v0)

	// click on the ocean clears the selection
	s.Dispatch(Event{Kind: PointerDown, X: 5, Y: 5})
	snap = s.Dispatch(Event{Kind: PointerUp, X: 5, Y: 5})
	assert.Equal(t, "", snap.View.Selected)
}

func TestStoreRepublishesOnPan(t *testing.T) {
	s := newTestStore()
	name, ok := s.HitTest(400, 225)
	require.True(t, ok)
	require.Equal(t, "France", name)

	s.Dispatch(Event{Kind: PointerDown, X: 400, Y: 225})
	s.Dispatch(Event{Kind: PointerMove, X: 700, Y: 225})
	s.Dispatch(Event{Kind: PointerUp, X: 700, Y: 225})

	assert.Equal(t, "", s.Snapshot().View.Selected)
	_, ok = s.HitTest(400, 225)
	assert.False(t, ok)
	name, ok = s.HitTest(700, 225)
	assert.True(t, ok)
	assert.Equal(t, "France", name)
}

func TestStoreDrawUsesSurfaceSize(t *testing.T) {
	s := newTestStore()
	dst := render.NewRaster(360, 200)
	s.Draw(dst)
	assert.Equal(t, geo.Viewport{Width: 360, Height: 200}, s.Snapshot().Viewport)
	_, ok := s.HitTest(180, 100)
	assert.True(t, ok)
}

func TestStoreWatch(t *testing.T) {
	s := newTestStore()
	ch, stop := s.Watch()
	defer stop()

	s.Dispatch(Event{Kind: ZoomIn})
	select {
	case snap := <-ch:
		assert.InDelta(t, 1.2, snap.View.Zoom, 1e-12)
	case <-time.After(time.Second):
		t.Fatal("no snapshot")
	}
}

func TestRegistry(t *testing.T) {
	r := render.New(nil)
	g := NewRegistry(r, vp, time.Minute, 0)
	now := time.Unix(1000, 0)
	g.now = func() time.Time { return now }

	id, s := g.Acquire("")
	require.NotEmpty(t, id)
	id2, s2 := g.Acquire(id)
	assert.Equal(t, id, id2)
	assert.Same(t, s, s2)

	other, _ := g.Acquire("unknown")
	assert.NotEqual(t, "unknown", other)
	assert.Equal(t, 2, g.Len())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, g.Sweep())
	_, ok := g.Get(id)
	assert.False(t, ok)
}

func TestRegistryLimitEvictsLeastRecentlySeen(t *testing.T) {
	g := NewRegistry(render.New(nil), vp, time.Hour, 3)
	now := time.Unix(1000, 0)
	g.now = func() time.Time { return now }

	var ids []string
	for i := 0; i < 3; i++ {
		id, _ := g.Acquire("")
		ids = append(ids, id)
		now = now.Add(time.Second)
	}
	// touch the first so the second becomes the oldest
	_, ok := g.Get(ids[0])
	require.True(t, ok)

	for i := 0; i < 50; i++ {
		g.Acquire("forged-" + time.Duration(i).String())
		now = now.Add(time.Second)
	}
	assert.Equal(t, 3, g.Len())
	_, ok = g.Get(ids[1])
	assert.False(t, ok)
}
