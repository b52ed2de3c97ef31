package mycache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"geomap/api/log"
	"geomap/api/model"

	"github.com/redis/go-redis/v9"
)

// OpenRedis 未配置地址时返回 nil
func OpenRedis(addr, pass string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

const latestVersionKey = latestStateKey + ":version"

// KEYS: 文档, 版本; ARGV: 文档, 版本, ttl 毫秒。已缓存版本不旧于 ARGV[2] 时不写
var setIfNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if cur and cur >= ARGV[2] then
  return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
  redis.call('SET', KEYS[2], ARGV[2], 'PX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[1])
  redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// RedisStateCache 多实例部署时共享最新状态
type RedisStateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStateCache(rdb *redis.Client, ttl time.Duration) *RedisStateCache {
	return &RedisStateCache{rdb: rdb, ttl: ttl}
}

func (r *RedisStateCache) GetLatest(ctx context.Context) (*model.SavedGame, bool) {
	raw, err := r.rdb.Get(ctx, latestStateKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnf("redis get latest state: %v", err)
		}
		return nil, false
	}
	var g model.SavedGame
	if err := json.Unmarshal(raw, &g); err != nil {
		log.Warnf("redis decode latest state: %v", err)
		return nil, false
	}
	return &g, true
}

func (r *RedisStateCache) SetLatest(ctx context.Context, g *model.SavedGame) {
	if g == nil {
		return
	}
	raw, err := json.Marshal(g)
	if err != nil {
		log.Warnf("redis encode latest state: %v", err)
		return
	}
	keys := []string{latestStateKey, latestVersionKey}
	if err := setIfNewer.Run(ctx, r.rdb, keys, raw, g.Version(), r.ttl.Milliseconds()).Err(); err != nil {
		log.Warnf("redis set latest state: %v", err)
	}
}

func (r *RedisStateCache) Invalidate(ctx context.Context) {
	if err := r.rdb.Del(ctx, latestStateKey, latestVersionKey).Err(); err != nil {
		log.Warnf("redis del latest state: %v", err)
	}
}
