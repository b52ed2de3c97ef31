package service

import (
	"fmt"
	"sort"

	"geomap/api/config"
	"geomap/api/geo"
	"geomap/api/log"
	"geomap/api/model"
	"geomap/api/render"
)

// World 启动时加载的只读地图数据
type World struct {
	Regions  []geo.Region
	Renderer *render.Renderer
	Index    *RegionIndex
	Stats    map[string]model.CountryStat
	Viewport geo.Viewport
	MaxSize  int

	byName map[string]int
}

var world *World

func NewWorld(regions []geo.Region, stats map[string]model.CountryStat, cfg config.MapConfig) (*World, error) {
	idx, err := NewRegionIndex(regions)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = map[string]model.CountryStat{}
	}
	w := &World{
		Regions:  regions,
		Renderer: render.New(regions, render.WithClampLatitude(cfg.ClampLatitude)),
		Index:    idx,
		Stats:    stats,
		Viewport: geo.Viewport{Width: float64(cfg.ViewportWidth), Height: float64(cfg.ViewportHeight)},
		MaxSize:  cfg.MaxRenderSize,
		byName:   make(map[string]int, len(regions)),
	}
	for i, r := range regions {
		if _, dup := w.byName[r.Name]; !dup {
			w.byName[r.Name] = i
		}
	}
	return w, nil
}

// InitWorld 读取几何与统计文件并设为全局
func InitWorld(cfg config.MapConfig) (*World, error) {
	regions, err := geo.LoadFile(cfg.GeometryFile)
	if err != nil {
		return nil, fmt.Errorf("load geometry: %w", err)
	}
	stats, err := LoadStats(cfg.StatsFile)
	if err != nil {
		return nil, err
	}
	w, err := NewWorld(regions, stats, cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("regions", len(regions)).WithField("stats", len(stats)).Info("world loaded")
	world = w
	return w, nil
}

func GetWorld() *World { return world }

func SetWorld(w *World) { world = w }

func (w *World) Region(name string) (geo.Region, bool) {
	i, ok := w.byName[name]
	if !ok {
		return geo.Region{}, false
	}
	return w.Regions[i], true
}

// Stat 该区域的统计，没有时 ok 为 false
func (w *World) Stat(name string) (model.CountryStat, bool) {
	s, ok := w.Stats[name]
	return s, ok
}

// Summaries 按名称排序的区域列表
func (w *World) Summaries() []model.RegionSummary {
	out := make([]model.RegionSummary, 0, len(w.Regions))
	for _, r := range w.Regions {
		out = append(out, summarize(r))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func summarize(r geo.Region) model.RegionSummary {
	s := model.RegionSummary{
		Name:     r.Name,
		Kind:     r.Kind,
		Polygons: len(r.Polygons),
		Color:    geo.ColorOf(r.Name).String(),
	}
	if b, ok := r.Bounds(); ok {
		s.BBox = &model.BBox{MinX: b[0], MinY: b[1], MaxX: b[2], MaxY: b[3]}
	}
	return s
}
