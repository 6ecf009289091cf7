// Package redisstate 提供基于 Redis 的内存态存储实现。
package redisstate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisPresenceRepository 是 PresenceRepository 接口的 Redis 实现。
// 每个房间维护一个 sorted set：member 是用户 ID，score 是最后活动的 Unix 时间戳。
// 活跃人数 = score 落在滑动窗口内的成员数。
type RedisPresenceRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPresenceRepository 创建 RedisPresenceRepository 实例
func NewRedisPresenceRepository(client *redis.Client, keyPrefix string) *RedisPresenceRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisPresenceRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "cc:" // 默认前缀 "cc:" (code collab)
	}
	return &RedisPresenceRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisPresenceRepository) roomPresenceKey(roomID string) string {
	return fmt.Sprintf("%sroom:%s:presence", r.keyPrefix, roomID)
}

// Touch 记录用户在房间内的一次活动 (ZADD，score 为活动时间戳)。
func (r *RedisPresenceRepository) Touch(ctx context.Context, roomID string, userID uint, at time.Time) error {
	key := r.roomPresenceKey(roomID)
	pipe := r.client.Pipeline()
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(at.Unix()),
		Member: strconv.FormatUint(uint64(userID), 10),
	})
	// 房间长期无人访问时让整个 key 过期
	pipe.Expire(ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: touch presence for user %d in room %s: %w", userID, roomID, err)
	}
	return nil
}

// ActiveCount 统计窗口内有活动的用户数，并清理窗口外的过期成员。
func (r *RedisPresenceRepository) ActiveCount(ctx context.Context, roomID string, window time.Duration) (int64, error) {
	key := r.roomPresenceKey(roomID)
	cutoff := time.Now().Add(-window).Unix()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff-1, 10))
	countCmd := pipe.ZCount(ctx, key, strconv.FormatInt(cutoff, 10), "+inf")
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis: count active presence for room %s: %w", roomID, err)
	}
	return countCmd.Val(), nil
}

// Clear 清除房间的全部在线状态 (房间删除时调用)。
func (r *RedisPresenceRepository) Clear(ctx context.Context, roomID string) error {
	key := r.roomPresenceKey(roomID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: clear presence for room %s: %w", roomID, err)
	}
	return nil
}
