package service

import (
	"fmt"
	"os"

	"geomap/api/model"

	"gopkg.in/yaml.v3"
)

type statsFile struct {
	Countries []model.CountryStat `yaml:"countries"`
}

// LoadStats 读取国家统计；文件缺失返回空表
func LoadStats(path string) (map[string]model.CountryStat, error) {
	out := map[string]model.CountryStat{}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	var f statsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode stats %s: %w", path, err)
	}
	for _, c := range f.Countries {
		if c.Name == "" {
			continue
		}
		out[c.Name] = c
	}
	return out, nil
}
