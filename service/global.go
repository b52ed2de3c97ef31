package service

import (
	"time"

	mycache "geomap/api/cache"
	"geomap/api/view"
)

var (
	gameService *GameService
	views       *view.Registry
)

func InitGameService(cache mycache.StateCache) *GameService {
	gameService = NewGameService(cache)
	return gameService
}

func GetGameService() *GameService { return gameService }

// InitViews 每个浏览器会话一个视图 store，最多 limit 个
func InitViews(w *World, ttl time.Duration, limit int) *view.Registry {
	views = view.NewRegistry(w.Renderer, w.Viewport, ttl, limit)
	return views
}

func GetViews() *view.Registry { return views }

func GetMapService() *MapService { return NewMapService(GetWorld()) }
