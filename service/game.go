package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	mycache "geomap/api/cache"
	"geomap/api/log"
	"geomap/api/metrics"
	"geomap/api/model"
	"geomap/api/system"
	"geomap/api/tools"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("geomap/api/service")

// GameService 游戏状态的追加写入与最新读取；并发保存按 last-write-wins 处理
type GameService struct {
	cache mycache.StateCache
}

func NewGameService(cache mycache.StateCache) *GameService {
	return &GameService{cache: cache}
}

// Latest 返回最近更新的一条；库中没有记录时返回 nil, nil
func (s *GameService) Latest(ctx context.Context) (*model.SavedGame, error) {
	ctx, span := tracer.Start(ctx, "GameService.Latest")
	defer span.End()

	if s.cache != nil {
		if g, ok := s.cache.GetLatest(ctx); ok {
			metrics.StateCacheHitsTotal.Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return g, nil
		}
		metrics.StateCacheMissesTotal.Inc()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var g model.SavedGame
	err := system.GetDb().WithContext(ctx).
		Order("updated_at desc").Order("id desc").
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query latest state: %w", err)
	}
	if s.cache != nil {
		s.cache.SetLatest(ctx, &g)
	}
	return &g, nil
}

// Save 新增一条状态文档，player 与 data 均可缺省
func (s *GameService) Save(ctx context.Context, player *string, data tools.JSON) (*model.SavedGame, error) {
	ctx, span := tracer.Start(ctx, "GameService.Save")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	g := &model.SavedGame{Player: player}
	if !data.IsNull() {
		g.Data = data
	}
	if err := system.GetDb().WithContext(ctx).Create(g).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert state: %w", err)
	}
	metrics.StateSavesTotal.Inc()
	log.WithField("id", g.ID).WithField("player", tools.Deref(player)).Debug("state saved")
	if s.cache != nil {
		s.cache.SetLatest(ctx, g)
	}
	return g, nil
}
