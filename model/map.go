package model

import (
	"github.com/shopspring/decimal"
)

// BBox 区域在经纬度坐标下的外接矩形
type BBox struct {
	MinX float64 `json:"minLon"`
	MinY float64 `json:"minLat"`
	MaxX float64 `json:"maxLon"`
	MaxY float64 `json:"maxLat"`
}

// CountryStat 国家补充信息，来源于 stats.yaml
type CountryStat struct {
	Name       string          `yaml:"name" json:"name"`
	Population decimal.Decimal `yaml:"population" json:"population"`
	GDP        decimal.Decimal `yaml:"gdp" json:"gdp"` // 美元
	FlagURL    string          `yaml:"flag" json:"flag"`
}

// RegionSummary 区域列表项
type RegionSummary struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Polygons int    `json:"polygons"`
	Color    string `json:"color"`
	BBox     *BBox  `json:"bbox,omitempty"`
}

// HitResult 命中测试结果
type HitResult struct {
	Hit  bool         `json:"hit"`
	Name string       `json:"name,omitempty"`
	Stat *CountryStat `json:"stat,omitempty"`
	// 点击处的经纬度，只在无状态接口中填写
	Lon *float64 `json:"lon,omitempty"`
	Lat *float64 `json:"lat,omitempty"`
}
