package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"

	"geomap/api/geo"
	"geomap/api/metrics"
	"geomap/api/model"
	"geomap/api/render"

	"go.opentelemetry.io/otel/attribute"
)

var ErrBadFrame = errors.New("bad frame")

type MapService struct {
	world *World
}

func NewMapService(w *World) *MapService { return &MapService{world: w} }

// FrameReq 无状态渲染与命中测试共用的视图参数
type FrameReq struct {
	Width    int       `json:"w" form:"w"`
	Height   int       `json:"h" form:"h"`
	Zoom     float64   `json:"zoom" form:"zoom"`
	Offset   geo.Point `json:"offset"`
	OffsetX  float64   `json:"-" form:"ox"`
	OffsetY  float64   `json:"-" form:"oy"`
	Selected string    `json:"selected" form:"selected"`
}

// Normalize 补默认值并校验；query 参数形式的偏移量并入 Offset
func (s *MapService) Normalize(f FrameReq) (FrameReq, error) {
	if f.Width == 0 && f.Height == 0 {
		f.Width, f.Height = int(s.world.Viewport.Width), int(s.world.Viewport.Height)
	}
	if f.Zoom == 0 {
		f.Zoom = 1
	}
	if f.OffsetX != 0 || f.OffsetY != 0 {
		f.Offset = geo.Point{X: f.OffsetX, Y: f.OffsetY}
	}
	limit := s.world.MaxSize
	if f.Width <= 0 || f.Height <= 0 || (limit > 0 && (f.Width > limit || f.Height > limit)) {
		return f, fmt.Errorf("%w: size %dx%d out of range", ErrBadFrame, f.Width, f.Height)
	}
	if f.Zoom < 0 || math.IsNaN(f.Zoom) || math.IsInf(f.Zoom, 0) {
		return f, fmt.Errorf("%w: zoom %v", ErrBadFrame, f.Zoom)
	}
	if math.IsNaN(f.Offset.X) || math.IsNaN(f.Offset.Y) || math.IsInf(f.Offset.X, 0) || math.IsInf(f.Offset.Y, 0) {
		return f, fmt.Errorf("%w: offset not finite", ErrBadFrame)
	}
	return f, nil
}

func (f FrameReq) frame() render.Frame {
	return render.Frame{
		Viewport: geo.Viewport{Width: float64(f.Width), Height: float64(f.Height)},
		Zoom:     f.Zoom,
		Offset:   f.Offset,
		Selected: f.Selected,
	}
}

// RenderPNG 渲染一帧并编码为 PNG
func (s *MapService) RenderPNG(ctx context.Context, f FrameReq) ([]byte, error) {
	_, span := tracer.Start(ctx, "MapService.RenderPNG")
	defer span.End()

	f, err := s.Normalize(f)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("w", f.Width), attribute.Int("h", f.Height), attribute.Float64("zoom", f.Zoom))

	dst := render.NewRaster(f.Width, f.Height)
	s.world.Renderer.Render(dst, f.frame())
	return EncodeRaster(dst)
}

func EncodeRaster(dst *render.Raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := dst.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type HitReq struct {
	FrameReq
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HitTest 按请求中的视图重建路径后做命中测试
func (s *MapService) HitTest(ctx context.Context, req HitReq) (model.HitResult, error) {
	_, span := tracer.Start(ctx, "MapService.HitTest")
	defer span.End()

	f, err := s.Normalize(req.FrameReq)
	if err != nil {
		return model.HitResult{}, err
	}
	paths := s.world.Renderer.Render(nil, f.frame())
	res := s.Resolve(paths, req.X, req.Y)
	ll := s.world.Renderer.Projection(f.frame()).Unproject(geo.Point{X: req.X, Y: req.Y})
	res.Lon, res.Lat = &ll.Lon, &ll.Lat
	return res, nil
}

// Resolve 在给定路径上命中测试，并附带统计
func (s *MapService) Resolve(paths []geo.RegionPath, x, y float64) model.HitResult {
	name, ok := geo.HitTest(x, y, paths)
	if !ok {
		metrics.HitTestsTotal.WithLabelValues("miss").Inc()
		return model.HitResult{}
	}
	metrics.HitTestsTotal.WithLabelValues("hit").Inc()
	res := model.HitResult{Hit: true, Name: name}
	if st, ok := s.world.Stat(name); ok {
		res.Stat = &st
	}
	return res
}

func (s *MapService) Regions() []model.RegionSummary { return s.world.Summaries() }

func (s *MapService) Search(q string, limit int) ([]model.RegionSummary, error) {
	names, err := s.world.Index.Search(q, limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.RegionSummary, 0, len(names))
	for _, n := range names {
		if r, ok := s.world.Region(n); ok {
			out = append(out, summarize(r))
		}
	}
	return out, nil
}

func (s *MapService) Stat(name string) (model.CountryStat, bool) { return s.world.Stat(name) }

func (s *MapService) World() *World { return s.world }
