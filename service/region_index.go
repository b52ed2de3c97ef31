package service

import (
	"fmt"
	"strings"

	"geomap/api/geo"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/search/query"
)

type regionDoc struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// RegionIndex 区域名称检索，内存索引，启动时构建一次
type RegionIndex struct {
	idx bleve.Index
}

func NewRegionIndex(regions []geo.Region) (*RegionIndex, error) {
	m := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("create region index: %w", err)
	}
	batch := idx.NewBatch()
	for _, r := range regions {
		if err := batch.Index(r.Name, regionDoc{Name: r.Name, Kind: r.Kind}); err != nil {
			return nil, fmt.Errorf("index %s: %w", r.Name, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("index regions: %w", err)
	}
	return &RegionIndex{idx: idx}, nil
}

// Search 名称匹配、前缀与一次编辑距离的模糊匹配取并集，按得分排序
func (ri *RegionIndex) Search(q string, limit int) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	lower := strings.ToLower(q)

	match := bleve.NewMatchQuery(q)
	match.SetField("name")
	prefix := bleve.NewPrefixQuery(lower)
	prefix.SetField("name")
	fuzzy := bleve.NewFuzzyQuery(lower)
	fuzzy.SetField("name")
	fuzzy.SetFuzziness(1)

	disjuncts := []query.Query{match, prefix, fuzzy}
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(disjuncts...), limit, 0, false)
	res, err := ri.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search regions: %w", err)
	}
	out := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}

func (ri *RegionIndex) Close() error { return ri.idx.Close() }
