package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"geomap/api/geo"
	"geomap/api/render"
	"geomap/api/service"
)

type regionReport struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Polygons int        `json:"polygons"`
	Holes    int        `json:"holes"`
	Vertices int        `json:"vertices"`
	Bounds   [4]float64 `json:"bounds"`
	Color    string     `json:"color"`
}

// geotool 离线检查几何文件：输出区域报告并可渲染一张预览图
func main() {
	input := flag.String("input", "data/world.geo.json", "GeoJSON FeatureCollection")
	outDir := flag.String("out", "out_geo", "Output directory")
	width := flag.Int("w", 800, "preview width")
	height := flag.Int("h", 450, "preview height")
	zoom := flag.Float64("zoom", 1, "preview zoom")
	selected := flag.String("selected", "", "region to highlight in the preview")
	clamp := flag.Bool("clamp", true, "clamp latitude to the Mercator range")
	flag.Parse()

	regions, err := geo.LoadFile(*input)
	must(err)

	_ = os.MkdirAll(*outDir, 0o755)
	base := strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))
	base = strings.TrimSuffix(base, ".geo")

	reports := make([]regionReport, 0, len(regions))
	dup := map[string]int{}
	for _, r := range regions {
		dup[r.Name]++
		rep := regionReport{Name: r.Name, Kind: r.Kind, Polygons: len(r.Polygons), Color: geo.ColorOf(r.Name).String()}
		for _, p := range r.Polygons {
			if len(p) > 1 {
				rep.Holes += len(p) - 1
			}
			for _, ring := range p {
				rep.Vertices += len(ring)
			}
		}
		rep.Bounds, _ = r.Bounds()
		reports = append(reports, rep)
	}
	for name, n := range dup {
		if n > 1 {
			// 同名区域命中测试只会返回第一个
			fmt.Fprintf(os.Stderr, "warn: region %q appears %d times\n", name, n)
		}
	}

	j, _ := json.MarshalIndent(reports, "", "  ")
	reportPath := filepath.Join(*outDir, base+"_regions.json")
	must(os.WriteFile(reportPath, j, 0o644))

	r := render.New(regions, render.WithClampLatitude(*clamp))
	dst := render.NewRaster(*width, *height)
	r.Render(dst, render.Frame{Zoom: *zoom, Selected: *selected})
	png, err := service.EncodeRaster(dst)
	must(err)
	previewPath := filepath.Join(*outDir, base+"_preview.png")
	must(os.WriteFile(previewPath, png, 0o644))

	fmt.Printf("regions: %d\nreport:  %s\npreview: %s\n", len(regions), reportPath, previewPath)
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
