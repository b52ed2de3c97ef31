package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mycache "geomap/api/cache"
	"geomap/api/config"
	"geomap/api/geo"
	"geomap/api/model"
	"geomap/api/system"
	"geomap/api/tools"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func useMemoryDb(t *testing.T) {
	t.Helper()
	_, err := system.InitDb(config.DBConfig{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, AutoMigrate: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = system.CloseDb() })
}

func square(name string, lon, lat, half float64) geo.Region {
	return geo.Region{Name: name, Kind: geo.KindPolygon, Polygons: []geo.Polygon{{geo.Ring{
		{Lon: lon - half, Lat: lat - half},
		{Lon: lon + half, Lat: lat - half},
		{Lon: lon + half, Lat: lat + half},
		{Lon: lon - half, Lat: lat + half},
	}}}}
}

var mapCfg = config.MapConfig{ViewportWidth: 800, ViewportHeight: 450, MaxRenderSize: 2048, ClampLatitude: true}

func testWorld(t *testing.T) *World {
	t.Helper()
	regions := []geo.Region{
		square("Unit", 0, 0, 0.5),
		square("Pakistan", 70, 30, 5),
		square("India", 80, 20, 5),
		square("United States of America", -100, 40, 10),
	}
	stats := map[string]model.CountryStat{
		"Pakistan": {Name: "Pakistan", Population: decimal.NewFromInt(240_000_000), GDP: decimal.NewFromInt(350_000_000_000)},
	}
	w, err := NewWorld(regions, stats, mapCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Index.Close() })
	return w
}

func TestGameServiceSaveThenLatest(t *testing.T) {
	useMemoryDb(t)
	ctx := context.Background()
	cache, err := mycache.NewMemoryStateCache(time.Minute)
	require.NoError(t, err)
	svc := NewGameService(cache)

	got, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	before := time.Now().Truncate(time.Millisecond)
	alice := "alice"
	_, err = svc.Save(ctx, &alice, tools.JSON(`{"score":5}`))
	require.NoError(t, err)

	got, err = svc.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", *got.Player)
	var data struct{ Score int }
	require.NoError(t, json.Unmarshal(got.Data, &data), spew.Sdump(got))
	assert.Equal(t, 5, data.Score)
	assert.False(t, got.UpdatedAt.Before(before))
}

func TestLatestDoesNotCacheOlderThanConcurrentSave(t *testing.T) {
	useMemoryDb(t)
	ctx := context.Background()
	cache, err := mycache.NewMemoryStateCache(time.Minute)
	require.NoError(t, err)
	svc := NewGameService(cache)

	old, next := "old", "new"
	_, err = svc.Save(ctx, &old, nil)
	require.NoError(t, err)
	cache.Invalidate(ctx)

	// a save lands after Latest read the table but before it fills the cache
	var once sync.Once
	err = system.GetDb().Callback().Query().After("gorm:query").Register("test:save_between", func(tx *gorm.DB) {
		once.Do(func() {
			_, err := svc.Save(ctx, &next, nil)
			require.NoError(t, err)
		})
	})
	require.NoError(t, err)

	got, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", *got.Player)

	got, err = svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", *got.Player)

	var n int64
	require.NoError(t, system.GetDb().Model(&model.SavedGame{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestGameServiceReadsThroughWithoutCache(t *testing.T) {
	useMemoryDb(t)
	ctx := context.Background()
	svc := NewGameService(nil)

	bob, carol := "bob", "carol"
	_, err := svc.Save(ctx, &bob, nil)
	require.NoError(t, err)
	_, err = svc.Save(ctx, &carol, tools.JSON(`{"level":2}`))
	require.NoError(t, err)

	got, err := svc.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "carol", *got.Player)

	_, err = svc.Save(ctx, nil, nil)
	require.NoError(t, err)
	got, err = svc.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.Player)
	assert.True(t, got.Data.IsNull())
}

func TestLoadStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.yaml")
	doc := "countries:\n" +
		"  - name: India\n    population: \"1400000000\"\n    gdp: \"3700000000000\"\n    flag: https://flagcdn.com/w320/in.png\n" +
		"  - name: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	stats, err := LoadStats(path)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	v := stats["India"].View()
	assert.Equal(t, "1.4B", v.Population)
	assert.Equal(t, "$3.7T", v.GDP)

	stats, err = LoadStats(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestRegionSearch(t *testing.T) {
	w := testWorld(t)

	names, err := w.Index.Search("pakistan", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pakistan"}, names)

	names, err = w.Index.Search("Ind", 5)
	require.NoError(t, err)
	assert.Contains(t, names, "India")

	names, err = w.Index.Search("Pakistn", 5)
	require.NoError(t, err)
	assert.Contains(t, names, "Pakistan")

	names, err = w.Index.Search("  ", 5)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMapServiceEndToEnd(t *testing.T) {
	svc := NewMapService(testWorld(t))
	ctx := context.Background()

	res, err := svc.HitTest(ctx, HitReq{X: 400, Y: 225})
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, "Unit", res.Name)
	require.NotNil(t, res.Lon)
	assert.InDelta(t, 0, *res.Lon, 1e-9)
	assert.InDelta(t, 0, *res.Lat, 1e-9)

	res, err = svc.HitTest(ctx, HitReq{X: 0, Y: 0})
	require.NoError(t, err)
	assert.False(t, res.Hit)

	f, err := svc.Normalize(FrameReq{})
	require.NoError(t, err)
	pk := geo.Projection{Viewport: geo.Viewport{Width: 800, Height: 450}, Zoom: 1, ClampLatitude: true}.Point(geo.LonLat{Lon: 70, Lat: 30})
	res, err = svc.HitTest(ctx, HitReq{FrameReq: f, X: pk.X, Y: pk.Y})
	require.NoError(t, err)
	require.NotNil(t, res.Stat)
	assert.Equal(t, "Pakistan", res.Stat.Name)
}

func TestMapServiceRenderPNG(t *testing.T) {
	svc := NewMapService(testWorld(t))
	raw, err := svc.RenderPNG(context.Background(), FrameReq{Width: 320, Height: 180, Zoom: 2, Selected: "India"})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())

	_, err = svc.RenderPNG(context.Background(), FrameReq{Width: 5000, Height: 10})
	assert.ErrorIs(t, err, ErrBadFrame)
	_, err = svc.RenderPNG(context.Background(), FrameReq{Width: 10, Height: 10, Zoom: -1})
	assert.ErrorIs(t, err, ErrBadFrame)
}

func TestSummaries(t *testing.T) {
	w := testWorld(t)
	s := w.Summaries()
	require.Len(t, s, 4)
	assert.Equal(t, "India", s[0].Name)
	require.NotNil(t, s[0].BBox)
	assert.Equal(t, 75.0, s[0].BBox.MinX)
	assert.Equal(t, geo.ColorOf("India").String(), s[0].Color)
}

func TestInitWorldBundledData(t *testing.T) {
	cfg := mapCfg
	cfg.GeometryFile = filepath.Join("..", "data", "world.geo.json")
	cfg.StatsFile = filepath.Join("..", "data", "stats.yaml")

	w, err := InitWorld(cfg)
	require.NoError(t, err)
	defer w.Index.Close()
	assert.Same(t, w, GetWorld())
	assert.Len(t, w.Regions, 8)

	st, ok := w.Stat("USA")
	require.True(t, ok)
	assert.Equal(t, "$26.5T", st.View().GDP)

	names, err := w.Index.Search("usa", 3)
	require.NoError(t, err)
	assert.Contains(t, names, "USA")

	_, err = InitWorld(config.MapConfig{GeometryFile: "missing.json"})
	assert.Error(t, err)
}
