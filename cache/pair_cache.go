package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"BassTab/db"
	"BassTab/logger"
	"BassTab/model"

	"github.com/go-redis/redis/v8"
)

// 配对载荷缓存TTL，目录内容基本静态，给一个较长的过期时间
const pairTTL = 30 * time.Minute

// GetPairKey 根据 slug 生成配对载荷的Redis键
func GetPairKey(slug string) string {
	return fmt.Sprintf("pair:%s", slug)
}

// GetPair 从缓存读取配对载荷，未命中时返回 (nil, nil)
func GetPair(ctx context.Context, slug string) (*model.PagePayload, error) {
	if db.RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	data, err := db.RedisClient.Get(ctx, GetPairKey(slug)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached pair %q: %w", slug, err)
	}

	var payload model.PagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		// 缓存内容损坏时当作未命中处理，同时清理坏键
		logger.Warn("dropping corrupt pair cache entry",
			logger.String("slug", slug), logger.ErrorField(err))
		db.RedisClient.Del(ctx, GetPairKey(slug))
		return nil, nil
	}
	return &payload, nil
}

// SetPair 写入配对载荷缓存
func SetPair(ctx context.Context, slug string, payload *model.PagePayload) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal pair payload: %w", err)
	}

	if err := db.RedisClient.Set(ctx, GetPairKey(slug), data, pairTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache pair %q: %w", slug, err)
	}
	return nil
}

// InvalidatePair 删除配对载荷缓存（目录文件更新后调用）
func InvalidatePair(ctx context.Context, slug string) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return db.RedisClient.Del(ctx, GetPairKey(slug)).Err()
}
