package mycache

import (
	"context"
	"sync"
	"time"

	"geomap/api/model"

	"github.com/dgraph-io/ristretto/v2"
)

const latestStateKey = "game:state:latest"

// StateCache 缓存最近一次保存的游戏状态，未命中时由调用方回源数据库
type StateCache interface {
	GetLatest(ctx context.Context) (*model.SavedGame, bool)
	// SetLatest 只在 g 比已缓存的文档更新时写入
	SetLatest(ctx context.Context, g *model.SavedGame)
	Invalidate(ctx context.Context)
}

type MemoryStateCache struct {
	mu  sync.Mutex // 串行化比较写入
	c   *ristretto.Cache[string, *model.SavedGame]
	ttl time.Duration
}

func NewMemoryStateCache(ttl time.Duration) (*MemoryStateCache, error) {
	c, err := ristretto.NewCache[string, *model.SavedGame](&ristretto.Config[string, *model.SavedGame]{
		NumCounters: 1000,
		MaxCost:     8 * 1024 * 1024, // 按文档字节数计费
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryStateCache{c: c, ttl: ttl}, nil
}

func (m *MemoryStateCache) GetLatest(_ context.Context) (*model.SavedGame, bool) {
	m.c.Wait()
	return m.c.Get(latestStateKey)
}

// SetLatest 写入后 Wait，保证紧接着的读能命中
func (m *MemoryStateCache) SetLatest(_ context.Context, g *model.SavedGame) {
	if g == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Wait()
	if cur, ok := m.c.Get(latestStateKey); ok && !g.NewerThan(cur) {
		return
	}
	cost := int64(len(g.Data)) + 1
	m.c.Del(latestStateKey)
	m.c.SetWithTTL(latestStateKey, g, cost, m.ttl)
	m.c.Wait()
}

func (m *MemoryStateCache) Invalidate(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Del(latestStateKey)
	m.c.Wait()
}

func (m *MemoryStateCache) Close() { m.c.Close() }
