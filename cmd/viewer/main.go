package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"geomap/api/config"
	"geomap/api/geo"
	"geomap/api/log"
	"geomap/api/service"
	"geomap/api/view"
)

type viewer struct {
	world  *service.World
	store  *view.Store
	screen screenSurface

	w, h      int
	last      image.Point
	wasInside bool

	server string
	player string
	status atomic.Value // string
}

func (v *viewer) dispatch(ev view.Event) view.Snapshot { return v.store.Dispatch(ev) }

func (v *viewer) Update() error {
	x, y := ebiten.CursorPosition()
	pt := image.Pt(x, y)
	fx, fy := float64(x), float64(y)
	inside := pt.In(image.Rect(0, 0, v.w, v.h))

	if v.wasInside && !inside {
		v.dispatch(view.Event{Kind: view.PointerLeave, X: fx, Y: fy})
	}
	v.wasInside = inside

	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.dispatch(view.Event{Kind: view.PointerDown, X: fx, Y: fy})
	}
	if pt != v.last {
		v.dispatch(view.Event{Kind: view.PointerMove, X: fx, Y: fy})
		v.last = pt
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		v.dispatch(view.Event{Kind: view.PointerUp, X: fx, Y: fy})
	}
	// ebiten reports scroll-up as positive, the opposite of a DOM wheel deltaY
	if _, wy := ebiten.Wheel(); wy != 0 && inside {
		v.dispatch(view.Event{Kind: view.Wheel, X: fx, Y: fy, DeltaY: -wy})
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		v.dispatch(view.Event{Kind: view.ZoomIn})
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		v.dispatch(view.Event{Kind: view.ZoomOut})
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.dispatch(view.Event{Kind: view.Reset})
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		go v.save(v.store.Snapshot())
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	v.screen.dst = screen
	v.store.Draw(&v.screen)

	snap := v.store.Snapshot()
	hud := fmt.Sprintf("zoom %.2f  offset (%.0f, %.0f)", snap.View.Zoom, snap.View.Offset.X, snap.View.Offset.Y)
	if sel := snap.View.Selected; sel != "" {
		hud += "\n" + sel
		if st, ok := v.world.Stat(sel); ok {
			sv := st.View()
			hud += fmt.Sprintf("\npopulation %s  gdp %s", sv.Population, sv.GDP)
		}
	}
	hud += "\n[+/-] zoom  [R] reset  [S] save"
	if st, _ := v.status.Load().(string); st != "" {
		hud += "\n" + st
	}
	ebitenutil.DebugPrint(screen, hud)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.w, v.h = outsideWidth, outsideHeight
	// events of the next Update are in this size
	v.store.Resize(geo.Viewport{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	return outsideWidth, outsideHeight
}

// save posts the current view as a game state document.
func (v *viewer) save(snap view.Snapshot) {
	if v.server == "" {
		v.status.Store("no server configured")
		return
	}
	body, _ := json.Marshal(map[string]any{"player": v.player, "data": snap.View})
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(v.server+"/api/game/state", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Warnf("save state: %v", err)
		v.status.Store("save failed")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		v.status.Store(fmt.Sprintf("save failed: %s", resp.Status))
		return
	}
	v.status.Store("saved " + time.Now().Format("15:04:05"))
}

func main() {
	configDir := flag.String("config", "", "directory holding config.yaml")
	server := flag.String("server", "http://localhost:4500", "game state api base url")
	player := flag.String("player", "desktop", "player name for saved state")
	flag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatal("load config: ", err)
	}
	log.Init(log.Options{Level: cfg.Log.Level})

	world, err := service.InitWorld(cfg.Map)
	if err != nil {
		log.Fatal("init world: ", err)
	}

	v := &viewer{
		world:  world,
		store:  view.NewStore(world.Renderer, world.Viewport),
		w:      cfg.Map.ViewportWidth,
		h:      cfg.Map.ViewportHeight,
		server: *server,
		player: *player,
	}

	ebiten.SetWindowSize(cfg.Map.ViewportWidth, cfg.Map.ViewportHeight)
	ebiten.SetWindowTitle("World Map")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
