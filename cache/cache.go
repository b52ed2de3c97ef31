package mycache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"geomap/api/config"
	"geomap/api/log"
)

// NewStateCache 按配置选择实现。redis 不可达时返回 nil（不缓存），不退回进程内缓存
func NewStateCache(cfg config.CacheConfig) (StateCache, error) {
	switch strings.ToLower(cfg.Driver) {
	case "redis":
		rdb := OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if rdb == nil {
			return nil, fmt.Errorf("cache driver redis requires redis_addr")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Errorf("redis %s unreachable, state cache disabled: %v", cfg.RedisAddr, err)
			_ = rdb.Close()
			return nil, nil
		}
		return NewRedisStateCache(rdb, cfg.TTL), nil
	case "none", "off":
		return nil, nil
	case "memory", "":
		return NewMemoryStateCache(cfg.TTL)
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}
